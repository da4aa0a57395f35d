package dashboard

import "carbondash/internal/model"

// Fixed demo datasets shown when every live tier is down. Values are
// deliberately recognizable as samples; the cascade always attaches a
// warning when these are served.

func placeholderTransfers() []model.Transfer {
	return []model.Transfer{
		{
			Hash:      "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef",
			From:      "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b3",
			To:        "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b4",
			Value:     "1000000000000000000",
			TimeStamp: "1705314600",
		},
		{
			Hash:      "0xabcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890",
			From:      "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b4",
			To:        "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b5",
			Value:     "500000000000000000",
			TimeStamp: "1705310100",
		},
	}
}

func placeholderHolders() []model.Holder {
	return []model.Holder{
		{Address: "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b3", Value: "1000000000000000000000"},
		{Address: "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b4", Value: "500000000000000000000"},
		{Address: "0x742d35Cc6634C0532925a3b8Df59C5f455d2a4b5", Value: "250000000000000000000"},
	}
}

func placeholderTokenInfo() model.TokenInfo {
	return model.TokenInfo{
		Name:           "Carbon Credit Token",
		Symbol:         "CCT",
		Decimals:       "18",
		TotalSupply:    "1000000000000000000000000",
		HoldersCount:   "3",
		TransfersCount: "2",
	}
}
