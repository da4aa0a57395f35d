package model

// TxStatus is the final state of a confirmed transaction.
type TxStatus string

const (
	TxSuccess  TxStatus = "success"
	TxReverted TxStatus = "reverted"
)

// PendingTx identifies a broadcast but not yet confirmed transaction.
type PendingTx struct {
	Hash string `json:"hash"`
}

// Receipt is the confirmation record of a submitted transaction.
// It exists only after the ledger has mined the transaction.
type Receipt struct {
	Hash           string   `json:"hash"`
	ConfirmedBlock uint64   `json:"confirmed_block"`
	Status         TxStatus `json:"status"`
}

// TxLogEntry is one line of the transaction audit log.
type TxLogEntry struct {
	Kind           string   `json:"kind"`
	Hash           string   `json:"hash"`
	ConfirmedBlock uint64   `json:"confirmed_block"`
	Status         TxStatus `json:"status"`
	Note           string   `json:"note,omitempty"`
	At             string   `json:"at"`
}
