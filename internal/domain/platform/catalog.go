package platform

// DefaultCatalog is the built-in platform list, used until the backend catalog loads.
var DefaultCatalog = Catalog{
	Crypto: []Platform{
		{ID: "metamask", Name: "MetaMask", Icon: "/metamask.png", Category: CategoryCrypto},
		{ID: "coinbase", Name: "Coinbase", Icon: "/coinbase.svg", Category: CategoryCrypto},
		{ID: "binance", Name: "Binance", Icon: "/binance.png", Category: CategoryCrypto},
		{ID: "phantom", Name: "Phantom", Icon: "/phantom.jpg", Category: CategoryCrypto},
		{ID: "ledger", Name: "Ledger", Icon: "/ledger.png", Category: CategoryCrypto},
		{ID: "trustwallet", Name: "Trust Wallet", Icon: "/trustwallet.webp", Category: CategoryCrypto},
	},
	Banks: []Platform{
		{ID: "chase", Name: "Chase", Icon: "dollar-sign", Category: CategoryBank},
		{ID: "bofa", Name: "Bank of America", Icon: "building", Category: CategoryBank},
		{ID: "wells", Name: "Wells Fargo", Icon: "truck", Category: CategoryBank},
		{ID: "citi", Name: "Citi", Icon: "landmark", Category: CategoryBank},
	},
	Brokers: []Platform{
		{ID: "robinhood", Name: "Robinhood", Icon: "/robinhood.svg", Category: CategoryBroker},
		{ID: "schwab", Name: "Charles Schwab", Icon: "/Charles_Schwab.png", Category: CategoryBroker},
		{ID: "fidelity", Name: "Fidelity", Icon: "/fidelity.jpg", Category: CategoryBroker},
		{ID: "etrade", Name: "E*TRADE", Icon: "/etrade.svg", Category: CategoryBroker},
	},
}
