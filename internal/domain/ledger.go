package domain

// AccountState is the slice of ledger account state the coordinator needs.
// Sequence numbers increment with each accepted operation, which is why
// mutating calls against one account must be serialized.
type AccountState struct {
	Address  string
	Sequence int64
}

type SubmissionResult struct {
	Successful  bool
	Hash        string
	ResultCodes string
}
