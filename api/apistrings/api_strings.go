package apistrings

const (
	/// Basic Seller Related Strings
	SellerNotFound             = "seller or account does not exist"
	SellerDetailsAlreadyExist  = "email or phone number already exists"
	InvalidEmailPasswordInput  = "please enter a valid email and password"
	IncorrectEmailPass         = "incorrect email or password"
	AdminOnly                  = "you are not permitted to access this resource"

	/// Core Functionality Error
	ServerError = "a server error occurred, please try again later"

	/// Wallet Related Strings
	SellerNoWallet      = "seller does not have a wallet created"
	InvalidPageInput    = "check 'limit' or 'offset' values, invalid request"

	/// Order and Escrow Related Strings
	OrderNotFound        = "order does not exist"
	InvalidOrderInput    = "check 'buyer_id' or 'total' keys, invalid request"
	InvalidEscrowInput   = "check 'order_id' or 'amount' keys, invalid request"
	DuplicateEscrowHold  = "order already has funds in escrow"
	EscrowHoldNotFound   = "order has no funds in escrow"
	InvalidDeliveryCode  = "delivery code is missing or does not match"
	EscrowAlreadySettled = "escrowed funds have already been settled"
	DisputeAlreadyOpen   = "a dispute is already open for this order"

	/// Withdrawal Related Strings
	InvalidWithdrawalInput   = "check 'amount' or bank detail keys, invalid request"
	WithdrawalNotFound       = "withdrawal request does not exist"
	WithdrawalBelowMinimum   = "amount is below the minimum withdrawal"
	WithdrawalInsufficient   = "insufficient available balance"
	WithdrawalDailyCap       = "daily withdrawal limit reached, try again tomorrow"
	WithdrawalNotCancellable = "withdrawal request can no longer be cancelled"
	WithdrawalBadTransition  = "withdrawal request cannot move to that status"

	/// Bank Related Strings
	BankNotVerified     = "please verify your bank account before withdrawing"
	InvalidBankInput    = "check 'account_number' or 'bank_code' keys, invalid request"
	BankNameMismatch    = "account name does not match your registered name"
	BankNameWeakMatch   = "account name is close but not exact, contact support to verify manually"
	BankResolutionError = "could not confirm account details with the bank"

	/// Notification Related Strings
	NotificationNotFound = "notification does not exist"
)
