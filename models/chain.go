package models

type ChainProfile struct {
	ChainID   int    `json:"chain_id"`
	Name      string `json:"name"`
	Supported bool   `json:"supported"`
	Source    string `json:"source"`
}
