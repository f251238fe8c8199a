package registry

import (
	"fmt"
	"html/template"
	"strings"
)

func atosProfile(confirmation *template.Template) *Profile {
	return &Profile{
		ID:          "atos",
		DisplayName: "ATOS",
		Title:       "ATOS Shareholder Registration",
		Description: "Please provide your ATOS shareholding information for the class action lawsuit.",
		Fields: []Field{
			{Key: "name", Label: "Your Name", Placeholder: "Your Name (Required)", Type: FieldText, Required: true},
			{Key: "email", Label: "Email address", Placeholder: "Your Email Address (Required)", Type: FieldEmail, Required: true},
			{Key: "phone", Label: "Mobile Phone", Placeholder: "Mobile Phone (Required)", Type: FieldTel, Required: true},
			{Key: "share_count", Label: "Nombre d'actions détenues", Placeholder: "Nombre d'actions détenues", Type: FieldNumber},
			{Key: "purchase_price", Label: "Buy Price", Placeholder: "Buy Price", Type: FieldNumber},
			{Key: "sell_price", Label: "Sell Price", Placeholder: "Sell Price", Type: FieldNumber},
			{Key: "loss", Label: "Perte Totale", Placeholder: "Perte Totale", Type: FieldNumber},
			{Key: "remarks", Label: "Remarques", Placeholder: "Remarques", Type: FieldTextarea},
		},
		SubmitText: "Submit",
		SuccessMessage: "Vos données ont été comptabilisées avec succès! <br> " +
			"Veuillez rafraichir la page pour voir le nouveau total d'actions cumulées",
		EmailSubject: "UPRA Registration - ATOS",
		confirmation: confirmation,
	}
}

// genericProfile builds the English profile used by urpea and every
// company without a dedicated entry.
func genericProfile(id string, confirmation *template.Template) *Profile {
	name := strings.ToUpper(id)
	return &Profile{
		ID:          id,
		DisplayName: name,
		Title:       fmt.Sprintf("%s Shareholder Registration", name),
		Description: fmt.Sprintf("Please provide your %s shareholding information for the class action lawsuit.", name),
		Fields: []Field{
			{Key: "name", Label: "Your Name", Placeholder: "Your Name (Required)", Type: FieldText, Required: true},
			{Key: "email", Label: "Email address", Placeholder: "Your Email Address (Required)", Type: FieldEmail, Required: true},
			{Key: "phone", Label: "Mobile Phone", Placeholder: "Mobile Phone (Required)", Type: FieldTel, Required: true},
			{Key: "share_count", Label: "Number of Shares Held", Placeholder: "Number of shares held", Type: FieldNumber},
			{Key: "purchase_price", Label: "Purchase Price", Placeholder: "Purchase price per share", Type: FieldNumber},
			{Key: "sell_price", Label: "Sell Price", Placeholder: "Sell price per share", Type: FieldNumber},
			{Key: "loss", Label: "Total Loss", Placeholder: "Total financial loss", Type: FieldNumber},
			{Key: "remarks", Label: "Remarks", Placeholder: "Additional comments", Type: FieldTextarea},
		},
		SubmitText:     "Submit Registration",
		SuccessMessage: fmt.Sprintf("Your %s data has been successfully recorded! <br> Please refresh the page to see the updated totals.", name),
		EmailSubject:   fmt.Sprintf("UPRA Registration - %s", name),
		confirmation:   confirmation,
	}
}
