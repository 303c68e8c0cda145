package model

type Professional struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Color     string `json:"color,omitempty"` // Hex, ej #4f9d69
}

// DisplayName arma el nombre como se muestra en la agenda
func (p *Professional) DisplayName() string {
	if p.Lastname == "" {
		return p.Firstname
	}
	return p.Lastname + ", " + p.Firstname
}

// DropdownOption es la forma {value, text, id} que consumen los selects
type DropdownOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}
