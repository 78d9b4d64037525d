package render

import (
	"fmt"
	"strconv"
	"time"

	"ticketmetal/models"
)

// EventReport renders the sales report of one event.
func EventReport(event *models.Event, stats *models.EventStats) ([]byte, error) {
	d := newDoc("Relatório " + event.Title)

	d.header("RELATÓRIO DO EVENTO")
	d.title(event.Title)

	d.infoRow("ESTATÍSTICAS DE VENDAS", "", true)
	d.infoRow("Total de Ingressos:", strconv.Itoa(stats.MaxTickets), false)
	d.infoRow("Ingressos Vendidos:", strconv.Itoa(stats.TicketsSold), false)
	d.infoRow("Ingressos Disponíveis:", strconv.Itoa(stats.TicketsAvailable), false)
	d.infoRow("Taxa de Ocupação:", fmt.Sprintf("%.1f%%", stats.OccupancyRate), false)
	d.infoRow("Receita Total:", fmt.Sprintf("R$ %.2f", stats.TotalRevenue), false)
	d.infoRow("Preço Médio:", fmt.Sprintf("R$ %.2f", stats.AveragePrice), false)

	d.footer(fmt.Sprintf("Relatório gerado em %s | TicketMetal", time.Now().Format(dateLayout)))

	return d.bytes()
}
