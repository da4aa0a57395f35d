package model

import "math/big"

// MintRequest describes one mint of carbon credits to a recipient.
// MetadataRef points at the off-chain credit documentation (an IPFS-style
// content identifier). It is the only handle callers have for reconciling
// duplicate submissions, so it should be unique per mint.
type MintRequest struct {
	Recipient   string   `json:"recipient"`
	Amount      *big.Int `json:"amount"`
	MetadataRef string   `json:"metadata_ref"`
}

// MintOutcome reports a mint attempt. The confirmed transaction is
// authoritative; the verification fields are best-effort and may be nil
// with Warning set when the post-mint reads fail.
type MintOutcome struct {
	Success          bool     `json:"success"`
	TransactionHash  string   `json:"transaction_hash,omitempty"`
	RecipientBalance *big.Int `json:"recipient_balance,omitempty"`
	MintRecordID     *int64   `json:"mint_record_id,omitempty"`
	Warning          string   `json:"warning,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// MintRecord is the persisted reconciliation row for a confirmed mint.
type MintRecord struct {
	TxHash      string `json:"tx_hash"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	MetadataRef string `json:"metadata_ref"`
	RecordID    *int64 `json:"record_id,omitempty"`
}
