package api

// MortgageAPI defines the interface for the Mortgage Mate backend client.
// *Client satisfies this interface. TUI and tests can use mock implementations.
type MortgageAPI interface {
	Reply(message, context string) (*ChatReply, error)
	Estimate(req EstimateRequest) (*EstimateResponse, error)
	Schemes(firstTimeBuyer bool, loanPurpose string) ([]GovernmentScheme, error)
}

var _ MortgageAPI = (*Client)(nil)
