/**
 * @description
 * This file defines the request/response structs for the payment gateway API.
 * The gateway exposes subaccounts (one per seller), customers, subscriptions
 * with split payments, and webhooks for payment lifecycle events. Field names
 * follow the gateway's JSON contract.
 */
package domain

// GatewayCreateAccountRequest creates a seller subaccount at the gateway.
type GatewayCreateAccountRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	MobilePhone   string `json:"mobilePhone,omitempty"`
	IncomeValue   int64  `json:"incomeValue,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"addressNumber,omitempty"`
	Province      string `json:"province,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
}

// GatewayAccountResponse is the gateway's representation of a subaccount.
// WalletID is the payout destination used as the split target.
type GatewayAccountResponse struct {
	ID       string `json:"id"`
	WalletID string `json:"walletId"`
	APIKey   string `json:"apiKey,omitempty"`
}

// GatewayCreateCustomerRequest creates a paying customer at the gateway.
type GatewayCreateCustomerRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	CpfCnpj           string `json:"cpfCnpj"`
	ExternalReference string `json:"externalReference,omitempty"`
}

// GatewayCustomerResponse is the gateway's representation of a customer.
type GatewayCustomerResponse struct {
	ID string `json:"id"`
}

// GatewayCreateSubscriptionRequest creates a recurring charge at the gateway.
// Split carries the allocation computed by the split calculator.
type GatewayCreateSubscriptionRequest struct {
	Customer          string            `json:"customer"`
	BillingType       string            `json:"billingType"`
	Value             float64           `json:"value"`
	NextDueDate       string            `json:"nextDueDate"`
	Cycle             string            `json:"cycle"`
	Description       string            `json:"description,omitempty"`
	ExternalReference string            `json:"externalReference,omitempty"`
	Split             []SplitAllocation `json:"split,omitempty"`
}

// GatewaySubscriptionResponse is the gateway's representation of a subscription.
type GatewaySubscriptionResponse struct {
	ID          string  `json:"id"`
	Customer    string  `json:"customer"`
	Value       float64 `json:"value"`
	Status      string  `json:"status"`
	NextDueDate string  `json:"nextDueDate"`
	Cycle       string  `json:"cycle"`
	Description string  `json:"description,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

// GatewayWebhookEvent is the envelope the gateway posts to our webhook
// endpoint on payment and subscription lifecycle changes.
type GatewayWebhookEvent struct {
	ID      string                `json:"id"`
	Event   string                `json:"event"`
	Payment GatewayWebhookPayment `json:"payment"`
}

// GatewayWebhookPayment is the payment object embedded in webhook events.
type GatewayWebhookPayment struct {
	ID           string  `json:"id"`
	Subscription string  `json:"subscription,omitempty"`
	Customer     string  `json:"customer,omitempty"`
	Value        float64 `json:"value,omitempty"`
	Status       string  `json:"status,omitempty"`
	DueDate      string  `json:"dueDate,omitempty"`
}
