package payment

import (
	"encoding/json"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	stripe "github.com/stripe/stripe-go/v72"
	session "github.com/stripe/stripe-go/v72/checkout/session"
	webhook "github.com/stripe/stripe-go/v72/webhook"
)

type Repository struct {
	stripeKey    string
	siteName     string
	siteHost     string
	urlProtocol  string
	pricePerItem int64
}

func NewRepository(stripeKey, siteName, siteHost, urlProtocol string, pricePerItem int64) *Repository {
	return &Repository{
		stripeKey:    stripeKey,
		siteName:     siteName,
		siteHost:     siteHost,
		urlProtocol:  urlProtocol,
		pricePerItem: pricePerItem,
	}
}

// AmountFor is the total charged for a purchase of itemCount rows.
func (r Repository) AmountFor(itemCount int) int64 {
	return r.pricePerItem * int64(itemCount)
}

// CreateListSession opens a hosted checkout session for a list
// purchase. Amounts are in JPY, a zero-decimal currency on Stripe, so
// the unit amount is the literal yen price per row.
func (r Repository) CreateListSession(itemCount int, filters string) (*stripe.CheckoutSession, error) {
	stripe.Key = r.stripeKey
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyJPY)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("企業リストデータ購入"),
						Description: stripe.String(fmt.Sprintf("検索条件に合致した企業リスト %s件", humanize.Comma(int64(itemCount)))),
					},
					UnitAmount: stripe.Int64(r.pricePerItem),
				},
				Quantity: stripe.Int64(int64(itemCount)),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s%s/success?session_id={CHECKOUT_SESSION_ID}", r.urlProtocol, r.siteHost)),
		CancelURL:  stripe.String(fmt.Sprintf("%s%s/", r.urlProtocol, r.siteHost)),
	}
	params.AddMetadata("filters", filters)
	params.AddMetadata("item_count", fmt.Sprintf("%d", itemCount))

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("unable to create stripe session: %+v", err)
	}

	return sess, nil
}

// GetSession retrieves a checkout session by id. The download handler
// uses it to check PaymentStatus and recover the purchased filters
// from metadata.
func (r Repository) GetSession(sessionID string) (*stripe.CheckoutSession, error) {
	stripe.Key = r.stripeKey
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stripe session: %+v", err)
	}
	return sess, nil
}

// IsPaid reports whether the session's payment went through.
func IsPaid(sess *stripe.CheckoutSession) bool {
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
}

func HandleCheckoutSessionComplete(body []byte, endpointSecret, stripeSig string) (*stripe.CheckoutSession, error) {
	event, err := webhook.ConstructEvent(body, stripeSig, endpointSecret)
	if err != nil {
		return nil, fmt.Errorf("error verifying webhook signature: %v\n", err)
	}
	// Handle the checkout.session.completed event
	if event.Type == "checkout.session.completed" {
		var sess stripe.CheckoutSession
		err := json.Unmarshal(event.Data.Raw, &sess)
		if err != nil {
			return nil, fmt.Errorf("error parsing webhook JSON: %v\n", err)
		}
		return &sess, nil
	}
	return nil, nil
}
