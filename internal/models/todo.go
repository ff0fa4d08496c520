package models

// TodoSet is one entry of the reference catalog: the mandatory preparation
// tasks of a todo category.
type TodoSet struct {
	Type  string   `json:"type" yaml:"type"`
	Todos []string `json:"todos" yaml:"todos"`
}
