// Package transport defines the request/response DTOs for the chat API.
package transport

import (
	"time"

	"cotizador_backend/internal/chat/session"
	"cotizador_backend/internal/quote"
)

// SendMessageRequest is the body of POST /chat/sessions/:id/messages.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// UpdateItemRequest is the body of PUT /chat/sessions/:id/quote/items/:code.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// TurnResponse is one transcript message.
type TurnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// QuoteItemResponse is one quote line.
type QuoteItemResponse struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// QuoteResponse is the draft order shown alongside the conversation.
type QuoteResponse struct {
	Items   []QuoteItemResponse `json:"items"`
	Total   float64             `json:"total"`
	Status  string              `json:"status"`
	OrderID string              `json:"orderId,omitempty"`
}

// SessionResponse is the full conversation state.
type SessionResponse struct {
	ID        string         `json:"id"`
	Turns     []TurnResponse `json:"turns"`
	Quote     QuoteResponse  `json:"quote"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// MessageResponse is the result of one conversation turn: the assistant's
// reply plus the quote it may have touched.
type MessageResponse struct {
	Reply string        `json:"reply"`
	Quote QuoteResponse `json:"quote"`
}

// ToQuoteResponse converts a domain quote.
func ToQuoteResponse(q quote.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for _, item := range q.Items {
		name := item.PublicName
		if name == "" {
			name = item.Name
		}
		items = append(items, QuoteItemResponse{
			Code:     item.Code,
			Name:     name,
			Brand:    item.Brand,
			Category: item.Category,
			ImageURL: item.ImageURL,
			Price:    item.Price,
			Quantity: item.Quantity,
			Subtotal: item.Price * float64(item.Quantity),
		})
	}
	return QuoteResponse{
		Items:   items,
		Total:   q.Total,
		Status:  string(q.Status),
		OrderID: q.OrderID,
	}
}

// ToSessionResponse converts a domain session.
func ToSessionResponse(s *session.Session) SessionResponse {
	turns := make([]TurnResponse, 0, len(s.Turns))
	for _, t := range s.Turns {
		turns = append(turns, TurnResponse{Role: t.Role, Text: t.Text})
	}
	return SessionResponse{
		ID:        s.ID,
		Turns:     turns,
		Quote:     ToQuoteResponse(s.Quote),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToMessageResponse builds the turn result from the saved session. The
// assistant's reply is always the last transcript entry.
func ToMessageResponse(s *session.Session) MessageResponse {
	reply := ""
	if len(s.Turns) > 0 {
		reply = s.Turns[len(s.Turns)-1].Text
	}
	return MessageResponse{
		Reply: reply,
		Quote: ToQuoteResponse(s.Quote),
	}
}
