package respond

// IngestRespond reports one completed CSV upload.
type IngestRespond struct {
	Table         string   `json:"table"`
	PhysicalTable string   `json:"physical_table"`
	Rows          int      `json:"rows"`
	Columns       []string `json:"columns"`
	Tenant        string   `json:"tenant"`
	Message       string   `json:"message"`
}
