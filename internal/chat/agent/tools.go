package agent

import (
	"context"

	"google.golang.org/genai"
)

// Tool names in the model-facing contract.
const (
	ToolSearchProducts = "searchProducts"
	ToolUpdateQuote    = "updateQuote"
	ToolCreateOrder    = "createOrder"
)

// SearchProductsArgs are the validated arguments for searchProducts.
type SearchProductsArgs struct {
	Query    string `json:"query" validate:"required"`
	Category string `json:"category"`
}

// QuoteItemArg is one (code, quantity) entry in a quote or order payload.
type QuoteItemArg struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity"`
}

// UpdateQuoteArgs are the validated arguments for updateQuote. The model
// sends the complete current item list, not a delta.
type UpdateQuoteArgs struct {
	Items []QuoteItemArg `json:"items" validate:"required,dive"`
}

// CreateOrderArgs are the validated arguments for createOrder. Confirmed
// must be true for the order backend to be invoked; the dispatcher enforces
// that, not the validator, because false is a legal (rejected) value.
type CreateOrderArgs struct {
	Confirmed bool           `json:"confirmed"`
	Items     []QuoteItemArg `json:"items" validate:"required,dive"`
}

// Dispatcher executes tool invocations requested by the model. Each method
// returns the payload fed back to the model; errors are converted into
// structured tool faults by the agent, never propagated.
type Dispatcher interface {
	SearchProducts(ctx context.Context, args SearchProductsArgs) (interface{}, error)
	UpdateQuote(ctx context.Context, args UpdateQuoteArgs) (interface{}, error)
	CreateOrder(ctx context.Context, args CreateOrderArgs) (interface{}, error)
}

var quoteItemsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"code":     {Type: genai.TypeString},
			"quantity": {Type: genai.TypeNumber},
		},
	},
}

// toolDeclarations is the function-calling contract offered to the model on
// every request. Descriptions are in Spanish to match the conversation
// language.
func toolDeclarations() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        ToolSearchProducts,
					Description: "Busca productos en el catálogo. Usa 'category' siempre que sea posible para filtrar resultados y mejorar la precisión.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"query": {
								Type:        genai.TypeString,
								Description: "Palabras clave del producto (Marca, Modelo, Dimensión).",
							},
							"category": {
								Type:        genai.TypeString,
								Description: "Filtro de categoría opcional (ej: 'Válvulas', 'Rotores', 'Programadores', 'Goteo', 'Accesorios'). Ayuda a reducir resultados irrelevantes.",
							},
						},
						Required: []string{"query"},
					},
				},
				{
					Name:        ToolUpdateQuote,
					Description: "Actualiza el panel visual de la cotización (borrador) visible para el usuario. Úsalo SIEMPRE que propongas productos o el usuario modifique cantidades. Envía la lista COMPLETA actual de productos.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"items": quoteItemsSchema,
						},
						Required: []string{"items"},
					},
				},
				{
					Name:        ToolCreateOrder,
					Description: "Finaliza la cotización y crea el pedido en el sistema (Dux). Solo usar cuando el cliente confirme explícitamente.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"confirmed": {
								Type:        genai.TypeBoolean,
								Description: "Debe ser true para proceder.",
							},
							"items": quoteItemsSchema,
						},
						Required: []string{"confirmed", "items"},
					},
				},
			},
		},
	}
}
