package response

type MemberResponse struct {
	ID        string `json:"id"`
	SponsorID string `json:"sponsorId"`
	Status    string `json:"status"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
