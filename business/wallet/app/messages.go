package app

// User-facing notification texts.
const (
	msgConnecting       = "Connecting to wallet..."
	msgConnectingDemo   = "Connecting to demo wallet..."
	msgConnected        = "Wallet connected: %s"
	msgDemoConnected    = "Demo wallet connected: %s"
	msgUserRejected     = "Wallet connection was declined. You can try again."
	msgConnectFailed    = "Could not connect to wallet (attempt %d of %d). Please try again."
	msgNoProvider       = "No wallet found (attempt %d of %d). Install or unlock your wallet and try again."
	msgFallbackDemo     = "Wallet unavailable after %d attempts. Switched to demo mode."
	msgInProgress       = "A wallet connection is already in progress."
	msgDisconnected     = "Wallet disconnected."
	msgDemoDisconnected = "Demo wallet disconnected."
	msgProviderDropped  = "Wallet disconnected by provider."
	msgAccountChanged   = "Switched to account %s"
	msgNetworkChanged   = "Network changed. Wallet session was reset."
	msgRewardPending    = "Reward of %s is pending wallet connection."
	msgRewardDemo       = "Demo reward of %s confirmed."
	msgRewardTracked    = "Reward of %s recorded for %s."
	msgWrongNetwork     = "Wallet is on a different network. Please switch to %s."
)
