package notifier

import (
	"fmt"
	"strings"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

// FormatMessage renders an order into the chat message template.
func FormatMessage(order *model.Order) string {
	var b strings.Builder

	b.WriteString("New Order:\n")
	fmt.Fprintf(&b, "Bread: %d\n", order.Bread)
	fmt.Fprintf(&b, "Sweets: %s\n", order.Sweets)
	fmt.Fprintf(&b, "Bars: %s\n", order.Bars)
	fmt.Fprintf(&b, "Choco: %s\n", order.Choco)
	fmt.Fprintf(&b, "Fruits: %s\n", order.Fruits)
	fmt.Fprintf(&b, "Vegetable: %s\n", order.Vegetable)
	fmt.Fprintf(&b, "College Available: %s\n", order.CollegeAvailable)
	fmt.Fprintf(&b, "Comments: %s\n", order.Comments)
	fmt.Fprintf(&b, "Timestamp: %s", order.Timestamp)

	return b.String()
}
