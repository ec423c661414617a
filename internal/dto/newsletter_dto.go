package dto

type SubscribeRequest struct {
	Email string `json:"email"`
}

type CampaignRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
