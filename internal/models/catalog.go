package models

// CatalogEntry is the immutable reference record for one fault code.
// The catalog is loaded externally and only ever read by this service.
type CatalogEntry struct {
	ErrorCode       int      `json:"error_code"`
	Severity        Severity `json:"severity"`
	Category        string   `json:"category"`
	AlertDetail     string   `json:"alert_detail"`
	InvokeCondition string   `json:"invoke_condition"`
	TagName         string   `json:"tag_name"`
	TagDescription  string   `json:"tag_description"`
}

// Detail joins the catalog texts into the human-readable alert detail.
func (e *CatalogEntry) Detail() string {
	return e.AlertDetail + "\n" + e.InvokeCondition
}
