package models

// Task is the client-side view of a task document returned by the board
// service. Only the fields the tool prints or inspects are typed; the rest of
// the document is kept in Raw.
type Task struct {
	Id          string
	Title       string
	Description string
	Column      string
	Lane        string
	Priority    string
	Assignee    string
	Color       string
	Size        string
	Tags        string
	Deadline    string
	ExtLink     string
	Type        string
	Blocked     bool
	LeadTime    string
	Raw         Document
}

func TaskFromDocument(doc Document) Task {
	return Task{
		Id:          doc.String("taskid"),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		Column:      doc.String("columnname"),
		Lane:        doc.String("lanename"),
		Priority:    doc.String("priority"),
		Assignee:    doc.String("assignee"),
		Color:       doc.String("color"),
		Size:        doc.String("size"),
		Tags:        doc.String("tags"),
		Deadline:    doc.String("deadline"),
		ExtLink:     doc.String("extlink"),
		Type:        doc.String("type"),
		Blocked:     Truthy(doc["blocked"]) && doc.String("blocked") != "0",
		LeadTime:    doc.String("leadtime"),
		Raw:         doc,
	}
}
