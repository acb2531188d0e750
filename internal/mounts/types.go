package mounts

// Mount is one row of the mount table.
type Mount struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	AcquiredBy  string `json:"acquired_by"`
	Patch       string `json:"patch"`
	Seats       int    `json:"seats"`
	Obtainable  bool   `json:"obtainable"`
	CashShop    bool   `json:"cash_shop"`
	MarketBoard bool   `json:"market_board"`

	// Description and WikiUrl are only set when descriptions are fetched.
	Description *string `json:"description,omitempty"`
	WikiUrl     *string `json:"wiki_url,omitempty"`
}

// Capabilities toggles the optional parts of extraction.
type Capabilities struct {
	FetchIcons        bool
	FetchDescriptions bool
}

// Layout is the column index of each field in a row of the mount table.
type Layout struct {
	Name        int
	TypeIcon    int
	Type        int
	AcquiredBy  int
	Obtainable  int
	CashShop    int
	MarketBoard int
	Seats       int
	Patch       int
	// MinCells is the amount of cells a row needs to be considered.
	MinCells int
}

// DefaultLayout is the layout of the table on the Mounts wiki page, column 0
// holds the mount's own icon and is not read.
var DefaultLayout = Layout{
	Name:        1,
	TypeIcon:    2,
	Type:        3,
	AcquiredBy:  4,
	Obtainable:  5,
	CashShop:    6,
	MarketBoard: 7,
	Seats:       8,
	Patch:       9,
	MinCells:    10,
}

// RequiredColumns are the header names that identify the mount table.
var RequiredColumns = []string{"Name", "Acquired By", "Seats"}

// DefaultSeats is used whenever the seat count of a row cannot be parsed.
const DefaultSeats = 1

const (
	markerObtainable  = "currently obtainable"
	markerCashShop    = "online store"
	markerMarketBoard = "market board"
)
