package requests

type GetSupportedTokensRequest struct {
	ChainID string `uri:"chain_id" validate:"required,number"`
}
