package models

import "fmt"

// Tab is a guitar tablature file stored by the service.
type Tab struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	DateAdded  string `json:"date_added,omitempty"`
	Size       int64  `json:"size,omitempty"`
	UploadedBy string `json:"uploaded_by,omitempty"`
}

// TabList is the body of GET /api/tabs.
type TabList struct {
	Tabs []Tab `json:"tabs"`
}

func (t Tab) String() string {
	if t.Size > 0 {
		return fmt.Sprintf("%s\t%s\t%d bytes", t.ID, t.Filename, t.Size)
	}
	return fmt.Sprintf("%s\t%s", t.ID, t.Filename)
}
