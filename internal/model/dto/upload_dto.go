package dto

// UploadResponse public URL of a stored file
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}

// SendEmailRequest renders one of the built-in templates to a single recipient.
type SendEmailRequest struct {
	To           string            `json:"to" binding:"required"`
	TemplateName string            `json:"templateName" binding:"required"`
	TemplateData map[string]string `json:"templateData"`
}

// SendEmailResponse reports how the message left the server.
type SendEmailResponse struct {
	Delivery string `json:"delivery"` // sent, queued
}

// SubscribeRequest is validated in the service so the error wording matches
// what the landing page expects.
type SubscribeRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	OrgName   string `json:"orgname"`
	Mobile    string `json:"mobile"`
	Message   string `json:"message"`
	Email     string `json:"email"`
}
