// AngelaMos | 2026
// dto.go

package inquiry

type CreateInquiryRequest struct {
	ProductID    string `json:"productId"    validate:"required_without=ProductName,max=100"`
	ProductName  string `json:"productName"  validate:"required_without=ProductID,max=200"`
	Platform     string `json:"platform"     validate:"max=20"`
	CustomerName string `json:"customerName" validate:"max=100"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed,omitempty"`
}
