package models

// Officer is a named corporate role-holder candidate. Either field may be empty.
type Officer struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// IsZero reports whether the officer carries neither a name nor a title.
func (o Officer) IsZero() bool {
	return o.Name == "" && o.Title == ""
}

// CompanyProfile is a best-effort company description from one external source.
// It is never authoritative on its own.
type CompanyProfile struct {
	Symbol       string    `json:"symbol"`
	LongName     string    `json:"longName,omitempty"`
	ShortName    string    `json:"shortName,omitempty"`
	Industry     string    `json:"industry,omitempty"`
	Sector       string    `json:"sector,omitempty"`
	Headquarters string    `json:"headquarters,omitempty"`
	Website      string    `json:"website,omitempty"`
	Exchange     string    `json:"exchange,omitempty"`
	Officers     []Officer `json:"officers,omitempty"`
}

// DisplayName returns the long name, falling back to the short name.
func (p *CompanyProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.LongName != "" {
		return p.LongName
	}
	return p.ShortName
}

// MarketSnapshot is the company-info payload: profile facts plus the latest quote.
type MarketSnapshot struct {
	Ticker              string   `json:"ticker"`
	ShortName           *string  `json:"shortName"`
	LongName            *string  `json:"longName"`
	Exchange            *string  `json:"exchange"`
	Currency            *string  `json:"currency"`
	MarketPrice         *float64 `json:"marketPrice"`
	MarketChange        *float64 `json:"marketChange"`
	MarketChangePercent *float64 `json:"marketChangePercent"`
	MarketTime          *string  `json:"marketTime"`
	Industry            *string  `json:"industry,omitempty"`
	Sector              *string  `json:"sector,omitempty"`
	Website             *string  `json:"website,omitempty"`
	Employees           *int64   `json:"employees,omitempty"`
	Headquarters        *string  `json:"headquarters,omitempty"`
	Summary             *string  `json:"summary,omitempty"`
	FetchTimestamp      string   `json:"fetchTimestamp"`
	ErrorMessage        string   `json:"errorMessage,omitempty"`
}

// RegistryRecord is a company-registry filing summary keyed by ticker.
type RegistryRecord struct {
	RepresentativeName  string `json:"representativeName"`
	RepresentativeTitle string `json:"representativeTitle"`
	CompanyName         string `json:"companyName"`
	HeadOfficeAddress   string `json:"headOfficeAddress"`
	CapitalStock        string `json:"capitalStock"`
}
