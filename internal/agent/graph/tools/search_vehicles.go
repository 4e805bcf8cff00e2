package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/autoemporium/showroom-assistant/internal/agent/catalog"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

const ToolSearchVehicles = "search_vehicles"

// ===================================
// Search Vehicles Tool
// ===================================

type SearchVehiclesInput struct {
	Body                 string   `json:"body,omitempty"`
	Fuel                 string   `json:"fuel,omitempty"`
	Brand                string   `json:"brand,omitempty"`
	Model                string   `json:"model,omitempty"`
	SeatsMin             int      `json:"seats_min,omitempty"`
	ExcludeTransmissions []string `json:"exclude_transmissions,omitempty"`
	MaxResults           int      `json:"max_results,omitempty"`
}

type SearchVehiclesOutput struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Total    int             `json:"total"`
}

// NewSearchVehiclesTool exposes the catalog as an invokable Eino tool.
func NewSearchVehiclesTool(c *catalog.Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchVehicles,
			Desc: "Search the showroom inventory. Filters are optional and combined with AND. Returns vehicles with brand, model, body, fuel, seats, transmission and price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"body": {
					Type: schema.String,
					Desc: "Body type: suv, sedan, hatchback, pickup, mpv, coupe, convertible",
				},
				"fuel": {
					Type: schema.String,
					Desc: "Fuel type: petrol, diesel, hybrid, electric",
				},
				"brand": {
					Type: schema.String,
					Desc: "Manufacturer, e.g. Volvo",
				},
				"model": {
					Type: schema.String,
					Desc: "Model name, e.g. XC90",
				},
				"seats_min": {
					Type: schema.Integer,
					Desc: "Minimum number of seats",
				},
				"exclude_transmissions": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
					Desc:     "Transmissions the customer refuses, e.g. manual",
				},
				"max_results": {
					Type: schema.Integer,
					Desc: "Maximum number of vehicles to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchVehiclesInput) (*SearchVehiclesOutput, error) {
			if c == nil {
				return nil, fmt.Errorf("vehicle catalog is not loaded")
			}

			found := c.Search(catalog.Query{
				Body:                 strings.TrimSpace(in.Body),
				Fuel:                 strings.TrimSpace(in.Fuel),
				Brand:                strings.TrimSpace(in.Brand),
				Model:                strings.TrimSpace(in.Model),
				SeatsMin:             in.SeatsMin,
				ExcludeTransmissions: in.ExcludeTransmissions,
				Limit:                in.MaxResults,
			})

			return &SearchVehiclesOutput{
				Vehicles: found,
				Total:    len(found),
			}, nil
		},
	)
}
