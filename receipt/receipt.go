// Package receipt renders the kitchen/delivery slip of an order as PDF.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"delivery-backend/models"
)

const (
	pageWidth  = 80.0
	pageHeight = 297.0
	margin     = 4.0
	lineHeight = 5.0
)

// Filename is the download name of the slip.
func Filename(order *models.Order) string {
	return "pedido_" + order.OrderNumber + ".pdf"
}

// Render writes the slip for order to w. The order should be loaded with
// Establishment, Client, PaymentMethod, Items.Product, Items.Size and
// Items.Addons.
func Render(w io.Writer, order *models.Order) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := pageWidth - 2*margin

	if order.Establishment != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(width, 6, tr(order.Establishment.Name), "", "C", false)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(width, lineHeight, tr("Pedido "+order.OrderNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(width, lineHeight, order.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	separator(pdf, width)

	if order.Client != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.MultiCell(width, lineHeight, tr("Cliente: "+order.Client.Name), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(width, lineHeight, tr("Telefone: "+order.Client.Phone), "", "L", false)
		if order.DeliveryType == models.DeliveryTypeDelivery {
			pdf.MultiCell(width, lineHeight, tr("Entrega: "+clientAddress(order.Client)), "", "L", false)
		} else {
			pdf.MultiCell(width, lineHeight, tr("Retirada no local"), "", "L", false)
		}
		separator(pdf, width)
	}

	for _, item := range order.Items {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(width*0.7, lineHeight, tr(itemLabel(item)), "", 0, "L", false, 0, "")
		pdf.CellFormat(width*0.3, lineHeight, money(item.FinalPrice), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, addon := range item.Addons {
			pdf.CellFormat(width, 4, tr("  + "+addon.Name+" "+money(addon.Price)), "", 1, "L", false, 0, "")
		}
	}
	separator(pdf, width)

	pdf.SetFont("Helvetica", "", 9)
	if order.DeliveryFee.Valid {
		row(pdf, width, tr("Taxa de entrega"), money(order.DeliveryFee.Decimal))
	}
	pdf.SetFont("Helvetica", "B", 10)
	row(pdf, width, "Total", money(grandTotal(order)))
	pdf.SetFont("Helvetica", "", 9)
	if order.PaymentMethod != nil {
		row(pdf, width, "Pagamento", tr(order.PaymentMethod.Name))
	}
	if order.Change.Valid {
		row(pdf, width, "Troco para", money(order.Change.Decimal))
	}
	if strings.TrimSpace(order.Notes) != "" {
		separator(pdf, width)
		pdf.MultiCell(width, lineHeight, tr("Obs: "+order.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render receipt %s: %w", order.OrderNumber, err)
	}
	return pdf.Output(w)
}

func separator(pdf *fpdf.Fpdf, width float64) {
	x, y := pdf.GetXY()
	pdf.Line(x, y+1, x+width, y+1)
	pdf.Ln(2)
}

func row(pdf *fpdf.Fpdf, width float64, label, value string) {
	pdf.CellFormat(width*0.6, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.4, lineHeight, value, "", 1, "R", false, 0, "")
}

func money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func itemLabel(item models.OrderItem) string {
	label := fmt.Sprintf("%dx ", item.Quantity)
	if item.Product != nil {
		label += item.Product.Name
	}
	if item.Size != nil {
		label += " (" + item.Size.Name + ")"
	}
	return label
}

func clientAddress(c *models.Client) string {
	parts := []string{c.Street, c.Number, c.Neighborhood, c.Complement}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// grandTotal is what the client pays: item total plus delivery fee.
func grandTotal(o *models.Order) decimal.Decimal {
	if o.DeliveryFee.Valid && o.DeliveryType == models.DeliveryTypeDelivery {
		return o.Total.Add(o.DeliveryFee.Decimal)
	}
	return o.Total
}
