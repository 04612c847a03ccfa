package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"amazonia/internal/modules/cart"
	"amazonia/internal/types"
)

const whatsAppBaseURL = "https://wa.me/"

// whatsAppLink builds a wa.me deep link with text encoded the way browsers
// encode URI components (spaces as %20).
func whatsAppLink(phone, text string) string {
	return whatsAppBaseURL + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func quoteRequestText(vehicleName string) string {
	return fmt.Sprintf("Hola, quisiera cotizar un envio de carga pesada (%s)", vehicleName)
}

type formatFunc func(amount float64) string

type messageData struct {
	storeName string
	order     Order
	location  *types.Point
	items     []cart.Item
	shipping  string
	total     string
}

func renderMessage(d messageData, format formatFunc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Pedido - %s*\n\n", d.storeName)
	fmt.Fprintf(&b, "*Cliente:* %s\n", d.order.CustomerName)
	fmt.Fprintf(&b, "*Teléfono:* %s\n", d.order.Phone)
	if d.order.Method == MethodDelivery {
		b.WriteString("*Método:* Envío 🛵\n\n")
		fmt.Fprintf(&b, "*Dirección:* %s\n", d.order.Address)
		ref := d.order.Reference
		if ref == "" {
			ref = "N/A"
		}
		fmt.Fprintf(&b, "*Referencia:* %s\n", ref)
		if d.location != nil {
			fmt.Fprintf(&b, "*Ubicación:* https://maps.google.com/?q=%g,%g\n", d.location.Lat, d.location.Lng)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("*Método:* Retiro 🏪\n\n")
	}

	b.WriteString("*Items:*\n")
	for _, it := range d.items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", it.Quantity, it.Name, format(it.UnitPrice*float64(it.Quantity)))
	}
	if d.order.Method == MethodDelivery {
		fmt.Fprintf(&b, "\n*Envío:* %s", d.shipping)
	}
	fmt.Fprintf(&b, "\n*TOTAL: %s*", d.total)
	return b.String()
}
