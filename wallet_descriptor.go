package smartwallet

const (
	walletIconURL        = "https://pbs.twimg.com/profile_images/1679433363818442753/E2kNVLBe_400x400.jpg"
	walletIconBackground = "#0c2f78"
)

// WalletDescriptor lists the connector in wallet pickers
type WalletDescriptor struct {
	ID              string
	Name            string
	IconURL         string
	IconBackground  string
	CreateConnector func() (*Connector, error)
}

func NewWalletDescriptor(params ConnectorParams) WalletDescriptor {
	return WalletDescriptor{
		ID:             ConnectorID,
		Name:           ConnectorName,
		IconURL:        walletIconURL,
		IconBackground: walletIconBackground,
		CreateConnector: func() (*Connector, error) {
			return NewConnector(params)
		},
	}
}
