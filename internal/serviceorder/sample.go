package serviceorder

import "time"

// SampleRequest returns the example order served by the preview route.
func SampleRequest() *Request {
	return &Request{
		Order: Order{
			ID:            "df5fade1-9c4c-4b30-a028-f14f12b65e2c",
			SID:           2,
			Number:        "00002/2025",
			Status:        StatusInProgress,
			Priority:      PriorityMedium,
			Title:         "instalação de moveis",
			Description:   "preços",
			Category:      "2",
			EstimatedCost: 202221,
			Discount:      2820,
			DiscountType:  DiscountPercentage,
			DiscountValue: 12,
			SubTotal:      23496,
			Total:         20676,
			StartDate:     sampleTime("2025-12-01T23:27:59.814Z"),
			CreatedAt:     sampleTime("2025-12-01T23:23:09.661Z"),
			UpdatedAt:     sampleTime("2025-12-01T23:28:32.612Z"),
		},
		Items: []LineItem{
			{ID: "f396f207-7099-4190-8d0d-105167515fca", Description: "REWQ", Quantity: 3, Price: 430, Total: 1290, Category: CategoryEquipment},
			{ID: "0366b5d0-aaab-4aa1-beee-72bf533cc5de", Description: "ZXCV", Quantity: 5, Price: 3300, Total: 16500, Category: CategoryLabor},
			{ID: "38d0bfb2-3434-47cf-b6d1-d3f3cf5eacd9", Description: "QWER", Quantity: 2, Price: 653, Total: 1306, Category: CategoryService},
			{ID: "e6762f57-76dd-4dc7-ba46-34ab7675ac91", Description: "ASDF", Quantity: 2, Price: 2200, Total: 4400, Category: CategoryService},
		},
		Customer: &Customer{
			Type:     CustomerCompany,
			Name:     "EMPRESA ASD",
			Email:    "empresa@email.com",
			Phone:    "23912223122",
			Document: "32311223123221",
			Address: Address{
				{Key: "city", Value: "cuiaba"},
				{Key: "state", Value: "mt"},
				{Key: "number", Value: "1233"},
				{Key: "street", Value: "ruas empresa"},
				{Key: "zipcode", Value: "78005100"},
				{Key: "complement", Value: "ed conrdia"},
				{Key: "neighborhood", Value: "centro sul "},
			},
		},
	}
}

func sampleTime(raw string) Timestamp {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		panic(err)
	}
	return NewTimestamp(t)
}
