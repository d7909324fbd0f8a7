// Package catalog reads candidate products from the shared price catalog.
// The catalog is owned by the ingestion side; everything here is read-only.
package catalog

// BranchMapping carries the secondary identifier set used when a row's
// primary chain/branch fields come from a different vendor feed.
type BranchMapping struct {
	SourceChain      string `json:"source_chain"`
	SourceBranchID   string `json:"source_branch_id"`
	SourceBranchName string `json:"source_branch_name"`
}

// Entry is one row of the product catalog. Product codes are not unique
// across chains; the same barcode shows up once per chain that stocks it.
type Entry struct {
	ProductCode string         `json:"product_code"`
	ProductName string         `json:"product_name"`
	Price       float64        `json:"price"`
	StoreChain  string         `json:"store_chain"`
	StoreID     string         `json:"store_id,omitempty"`
	Branch      *BranchMapping `json:"branch_mapping,omitempty"`
}

// Valid reports whether the entry can participate in matching. Rows with no
// chain or a non-positive price are malformed feed artifacts and are skipped.
func (e Entry) Valid() bool {
	return e.StoreChain != "" && e.Price > 0
}

// ChainName returns the chain the entry belongs to, preferring the branch
// mapping when the primary field is ambiguous.
func (e Entry) ChainName() string {
	if e.Branch != nil && e.Branch.SourceChain != "" {
		return e.Branch.SourceChain
	}
	return e.StoreChain
}

// BranchName returns best-effort branch display metadata.
func (e Entry) BranchName() string {
	if e.Branch != nil && e.Branch.SourceBranchName != "" {
		return e.Branch.SourceBranchName
	}
	return ""
}

// BranchID returns best-effort branch identifier metadata.
func (e Entry) BranchID() string {
	if e.Branch != nil && e.Branch.SourceBranchID != "" {
		return e.Branch.SourceBranchID
	}
	return e.StoreID
}
