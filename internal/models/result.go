package models

// Result is the outcome of an action whose response carries no structured
// data, only a positive or negative answer.
type Result struct {
	OK     bool
	Reason string
	Raw    []byte
}

func NewResult(raw []byte, decoded any) Result {
	if Truthy(decoded) {
		return Result{OK: true, Raw: raw}
	}
	return Result{OK: false, Reason: string(raw), Raw: raw}
}

// CreateResult is the outcome of a task creation. ID is empty when the
// response did not carry one.
type CreateResult struct {
	ID  string
	Raw []byte
}

func (r CreateResult) Created() bool {
	return r.ID != ""
}

func NewCreateResult(raw []byte, decoded any) CreateResult {
	res := CreateResult{Raw: raw}
	var doc Document
	switch v := decoded.(type) {
	case map[string]any:
		doc = Document(v)
	case Document:
		doc = v
	}
	if doc != nil && doc.Has("id") {
		res.ID = doc.String("id")
	}
	return res
}
