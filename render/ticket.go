package render

import (
	"fmt"
	"time"

	"ticketmetal/models"
)

const dateLayout = "02/01/2006 15:04"

// Ticket renders a purchased ticket as a PDF with the event details, the
// purchase details and a QR image encoding the prefixed payload.
func Ticket(ticket *models.Ticket, event *models.Event, buyerName string) ([]byte, error) {
	d := newDoc("Ingresso " + ticket.TicketNumber)

	d.header("TICKETMETAL")
	d.title(event.Title)

	d.infoRow("Data:", event.Date.Format(dateLayout), false)
	d.infoRow("Local:", event.Location, false)
	d.infoRow("Endereço:", event.Address, false)
	d.infoRow("Cidade:", fmt.Sprintf("%s - %s", event.City, event.State), false)
	d.pdf.Ln(8)

	d.infoRow("Número do Ingresso:", ticket.TicketNumber, true)
	d.infoRow("Valor Pago:", fmt.Sprintf("R$ %.2f", ticket.PricePaid), true)
	d.infoRow("Data da Compra:", ticket.PurchasedAt.Format(dateLayout), true)
	d.infoRow("Comprador:", buyerName, true)
	d.pdf.Ln(8)

	if err := d.qrImage(models.QRPayload(ticket.QRCode), 50); err != nil {
		return nil, err
	}

	d.text("INSTRUÇÕES:")
	d.text("- Apresente este ingresso na entrada do evento")
	d.text("- O QR Code será escaneado para validação")
	d.text("- Mantenha este documento em segurança")
	d.text("- Em caso de dúvidas, entre em contato com o organizador")

	d.footer(fmt.Sprintf("Gerado em %s | TicketMetal", time.Now().Format(dateLayout)))

	return d.bytes()
}
