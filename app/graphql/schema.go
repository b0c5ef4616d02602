// Package graphql defines the admin query API: dashboard, orders and order.
package graphql

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	gqlhttp "github.com/shashiranjanraj/foodhub/pkg/graphql"
)

// Dashboard is what the dashboard field needs.
type Dashboard interface {
	Dashboard(ctx context.Context) (services.DashboardStats, error)
}

// Orders is what the orders and order fields need.
type Orders interface {
	ListAll(ctx context.Context, skip, limit int, status string) (services.AdminOrderPage, error)
	GetAny(ctx context.Context, ref string) (services.OrderView, error)
}

// resolve builds a field resolver over a Go value of type T.
func resolve[T any](get func(T) any) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (any, error) {
		v, ok := p.Source.(T)
		if !ok {
			return nil, nil
		}
		return get(v), nil
	}
}

func timestamp(t time.Time) any { return t.UTC().Format(time.RFC3339) }

var orderItemType = gql.NewObject(gql.ObjectConfig{
	Name: "OrderItem",
	Fields: gql.Fields{
		"foodId":   {Type: gql.Int, Resolve: resolve(func(i services.OrderItemView) any { return int(i.FoodID) })},
		"foodName": {Type: gql.String, Resolve: resolve(func(i services.OrderItemView) any { return i.FoodName })},
		"quantity": {Type: gql.Int, Resolve: resolve(func(i services.OrderItemView) any { return i.Quantity })},
		"price":    {Type: gql.String, Resolve: resolve(func(i services.OrderItemView) any { return i.Price.StringFixed(2) })},
	},
})

var orderType = gql.NewObject(gql.ObjectConfig{
	Name: "Order",
	Fields: gql.Fields{
		"uuid":        {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return o.UUID })},
		"userId":      {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return o.UserID })},
		"userName":    {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return o.UserName })},
		"totalAmount": {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return o.TotalAmount.StringFixed(2) })},
		"status":      {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return string(o.Status) })},
		"revision":    {Type: gql.Int, Resolve: resolve(func(o services.OrderView) any { return int(o.Revision) })},
		"createdAt":   {Type: gql.String, Resolve: resolve(func(o services.OrderView) any { return timestamp(o.CreatedAt) })},
		"items":       {Type: gql.NewList(orderItemType), Resolve: resolve(func(o services.OrderView) any { return o.Items })},
	},
})

type statusCount struct {
	Status string
	Count  int64
}

var statusCountType = gql.NewObject(gql.ObjectConfig{
	Name: "StatusCount",
	Fields: gql.Fields{
		"status": {Type: gql.String, Resolve: resolve(func(s statusCount) any { return s.Status })},
		"count":  {Type: gql.Int, Resolve: resolve(func(s statusCount) any { return int(s.Count) })},
	},
})

var orderPageType = gql.NewObject(gql.ObjectConfig{
	Name: "OrderPage",
	Fields: gql.Fields{
		"total": {Type: gql.Int, Resolve: resolve(func(p services.AdminOrderPage) any { return int(p.Total) })},
		"items": {Type: gql.NewList(orderType), Resolve: resolve(func(p services.AdminOrderPage) any { return p.Items })},
		"statusCounts": {Type: gql.NewList(statusCountType), Resolve: resolve(func(p services.AdminOrderPage) any {
			out := make([]statusCount, 0, len(p.StatusCounts))
			for st, n := range p.StatusCounts {
				out = append(out, statusCount{Status: string(st), Count: n})
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
			return out
		})},
	},
})

var dashboardType = gql.NewObject(gql.ObjectConfig{
	Name: "Dashboard",
	Fields: gql.Fields{
		"totalRestaurants": {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.TotalRestaurants) })},
		"totalCategories":  {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.TotalCategories) })},
		"totalFoods":       {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.TotalFoods) })},
		"totalUsers":       {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.TotalUsers) })},
		"totalOrders":      {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.TotalOrders) })},
		"pendingOrders":    {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.PendingOrders) })},
		"completedOrders":  {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.CompletedOrders) })},
		"cancelledOrders":  {Type: gql.Int, Resolve: resolve(func(d services.DashboardStats) any { return int(d.CancelledOrders) })},
		"totalRevenue":     {Type: gql.String, Resolve: resolve(func(d services.DashboardStats) any { return d.TotalRevenue.StringFixed(2) })},
		"growth":           {Type: gql.Float, Resolve: resolve(func(d services.DashboardStats) any { return d.Growth })},
	},
})

// NewSchema wires the root query to the services.
func NewSchema(dash Dashboard, orders Orders) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"dashboard": {
				Type: dashboardType,
				Resolve: func(p gql.ResolveParams) (any, error) {
					return dash.Dashboard(p.Context)
				},
			},
			"orders": {
				Type: orderPageType,
				Args: gql.FieldConfigArgument{
					"skip":   {Type: gql.Int, DefaultValue: 0},
					"limit":  {Type: gql.Int, DefaultValue: ctx.DefaultLimit},
					"status": {Type: gql.String, DefaultValue: ""},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					skip, _ := p.Args["skip"].(int)
					limit, _ := p.Args["limit"].(int)
					status, _ := p.Args["status"].(string)
					if skip < 0 || limit < 1 || limit > ctx.MaxLimit {
						return nil, errors.New("skip must be >= 0 and limit between 1 and 100")
					}
					return orders.ListAll(p.Context, skip, limit, status)
				},
			},
			"order": {
				Type: orderType,
				Args: gql.FieldConfigArgument{
					"ref": {Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					ref, _ := p.Args["ref"].(string)
					o, err := orders.GetAny(p.Context, ref)
					if errors.Is(err, services.ErrOrderNotFound) {
						return nil, nil
					}
					return o, err
				},
			},
		},
	})
	return gqlhttp.NewSchema(query)
}

// Handler serves the schema.
func Handler(dash Dashboard, orders Orders) (http.HandlerFunc, error) {
	schema, err := NewSchema(dash, orders)
	if err != nil {
		return nil, err
	}
	return gqlhttp.Handler(schema), nil
}
