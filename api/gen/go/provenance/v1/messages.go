package provenancev1

// Asset is a registry record.
type Asset struct {
	AssetId  uint64   `cbor:"asset_id"`
	Owner    string   `cbor:"owner"`
	Metadata string   `cbor:"metadata,omitempty"`
	Location string   `cbor:"location,omitempty"`
	Listing  *Listing `cbor:"listing,omitempty"`
}

// Listing is an active sale offer.
type Listing struct {
	Seller string `cbor:"seller"`
	Price  uint64 `cbor:"price"`
}

// Holding is one non-zero ledger balance.
type Holding struct {
	Holder string `cbor:"holder"`
	Amount uint64 `cbor:"amount"`
}

// Event is one journal entry.
type Event struct {
	Seq       uint64 `cbor:"seq"`
	Type      string `cbor:"type"`
	AssetId   uint64 `cbor:"asset_id,omitempty"`
	Actor     string `cbor:"actor"`
	From      string `cbor:"from,omitempty"`
	To        string `cbor:"to,omitempty"`
	Amount    uint64 `cbor:"amount,omitempty"`
	Price     uint64 `cbor:"price,omitempty"`
	Location  string `cbor:"location,omitempty"`
	Metadata  string `cbor:"metadata,omitempty"`
	Hash      string `cbor:"hash"`
	ChainHash string `cbor:"chain_hash"`
}

// Ack acknowledges a mutation that has no other result.
type Ack struct {
	Ok bool `cbor:"ok"`
}

type MintAssetRequest struct {
	Metadata string `cbor:"metadata"`
	Location string `cbor:"location"`
}

type MintAssetResponse struct {
	AssetId uint64 `cbor:"asset_id"`
}

type UpdateLocationRequest struct {
	AssetId  uint64 `cbor:"asset_id"`
	Location string `cbor:"location"`
}

type TransferOwnershipRequest struct {
	AssetId  uint64 `cbor:"asset_id"`
	NewOwner string `cbor:"new_owner"`
}

type GetOwnerRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

// GetOwnerResponse leaves Owner empty and Found false for unminted ids.
type GetOwnerResponse struct {
	Owner string `cbor:"owner,omitempty"`
	Found bool   `cbor:"found"`
}

type GetAssetRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

type GetAssetResponse struct {
	Asset *Asset `cbor:"asset"`
}

type ListAssetsRequest struct {
	Filter    string `cbor:"filter,omitempty"`
	PageSize  int32  `cbor:"page_size,omitempty"`
	PageToken string `cbor:"page_token,omitempty"`
}

type ListAssetsResponse struct {
	Assets        []*Asset `cbor:"assets"`
	NextPageToken string   `cbor:"next_page_token,omitempty"`
}

type ListAssetRequest struct {
	AssetId uint64 `cbor:"asset_id"`
	Price   uint64 `cbor:"price"`
}

type UnlistAssetRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

type BuyAssetRequest struct {
	AssetId uint64 `cbor:"asset_id"`
	Payment uint64 `cbor:"payment"`
}

type BuyAssetResponse struct {
	Asset  *Asset `cbor:"asset"`
	Seller string `cbor:"seller"`
	Price  uint64 `cbor:"price"`
}

type IsValidAssetIdRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

type IsValidAssetIdResponse struct {
	Valid bool `cbor:"valid"`
}

type GetBalanceRequest struct {
	Principal string `cbor:"principal"`
	AssetId   uint64 `cbor:"asset_id"`
}

// AmountResponse carries a ledger quantity.
type AmountResponse struct {
	Amount uint64 `cbor:"amount"`
}

type GetAllowanceRequest struct {
	Owner   string `cbor:"owner"`
	Spender string `cbor:"spender"`
	AssetId uint64 `cbor:"asset_id"`
}

type GetTotalSupplyRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

type ListHoldersRequest struct {
	AssetId uint64 `cbor:"asset_id"`
}

type ListHoldersResponse struct {
	Holdings []*Holding `cbor:"holdings"`
}

type ApproveRequest struct {
	Spender string `cbor:"spender"`
	AssetId uint64 `cbor:"asset_id"`
	Amount  uint64 `cbor:"amount"`
}

type TransferFromRequest struct {
	From    string `cbor:"from"`
	To      string `cbor:"to"`
	AssetId uint64 `cbor:"asset_id"`
	Amount  uint64 `cbor:"amount"`
}

type TransferRequest struct {
	To      string `cbor:"to"`
	AssetId uint64 `cbor:"asset_id"`
	Amount  uint64 `cbor:"amount"`
}

type IssueUnitsRequest struct {
	AssetId uint64 `cbor:"asset_id"`
	Amount  uint64 `cbor:"amount"`
}

type ListEventsRequest struct {
	AfterSeq uint64 `cbor:"after_seq,omitempty"`
	Limit    int32  `cbor:"limit,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `cbor:"events"`
}

type VerifyJournalRequest struct{}

type VerifyJournalResponse struct {
	EventCount uint64 `cbor:"event_count"`
}

type GetVersionRequest struct{}

type GetVersionResponse struct {
	Version uint64 `cbor:"version"`
}
