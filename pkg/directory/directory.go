package directory

// Contact is one entry of the shared company directory. The directory is not
// scoped per employee.
type Contact struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Notes   string `json:"notes,omitempty"`
}
