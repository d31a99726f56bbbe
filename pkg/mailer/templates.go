package mailer

import (
	"bytes"
	"html/template"
)

type CouponMintedData struct {
	DonorName   string
	PartnerName string
	Code        string
	Amount      string
	ExpiryDate  string
	QRCode      template.URL
}

type ClaimStatusData struct {
	PartnerName string
	Code        string
	Amount      string
	Status      string
	Reason      string
}

var (
	couponMintedTmpl = template.Must(template.New("coupon_minted").Parse(`<html><body>
<h2>Thank you, {{.DonorName}}!</h2>
<p>Your donation has generated a coupon redeemable at <strong>{{.PartnerName}}</strong>.</p>
<p>Coupon code: <strong>{{.Code}}</strong><br>Value: {{.Amount}}<br>Valid until: {{.ExpiryDate}}</p>
{{if .QRCode}}<p><img src="{{.QRCode}}" alt="{{.Code}}" width="200" height="200"></p>{{end}}
<p>Care Foundation Trust</p>
</body></html>`))

	claimStatusTmpl = template.Must(template.New("claim_status").Parse(`<html><body>
<h2>Hello {{.PartnerName}},</h2>
<p>Your claim for coupon <strong>{{.Code}}</strong> ({{.Amount}}) is now <strong>{{.Status}}</strong>.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Care Foundation Trust</p>
</body></html>`))
)

func RenderCouponMinted(data CouponMintedData) (string, error) {
	var buf bytes.Buffer
	if err := couponMintedTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderClaimStatus(data ClaimStatusData) (string, error) {
	var buf bytes.Buffer
	if err := claimStatusTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
