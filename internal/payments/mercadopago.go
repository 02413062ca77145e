// Package payments creates payment links for consultation fees.
package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	prefs preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &MercadoPago{prefs: preference.NewClient(cfg)}, nil
}

// PaymentLink creates a checkout preference for the fee and returns its
// init-point URL. The appointment's public ID travels as external reference.
func (m *MercadoPago) PaymentLink(ctx context.Context, title string, amount float64, reference string) (string, error) {
	req := preference.Request{
		ExternalReference: reference,
		Items: []preference.ItemRequest{
			{
				Title:     title,
				Quantity:  1,
				UnitPrice: amount,
			},
		},
	}

	resp, err := m.prefs.Create(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.InitPoint, nil
}
