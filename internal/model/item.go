package model

// Item is one priced entry of the ledger.
// ID is assigned by the store on insert; callers never choose it.
type Item struct {
	ID   int64   `json:"id"`
	Name string  `json:"item"`
	Cost float64 `json:"cost"`
}

// Site is an entry of the bundled "where to buy" directory.
type Site struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"web" yaml:"web"`
}
