package serviceorder

const neutralBadge = "bg-gray-100 text-gray-800"

// Badge is a translated code with its colour classes.
type Badge struct {
	Label string
	Class string
}

var statusBadges = map[string]Badge{
	StatusPending:    {"Pendente", "bg-yellow-100 text-yellow-800"},
	StatusInProgress: {"Em Andamento", "bg-blue-100 text-blue-800"},
	StatusCompleted:  {"Concluído", "bg-green-100 text-green-800"},
	StatusCancelled:  {"Cancelado", "bg-red-100 text-red-800"},
}

var priorityBadges = map[string]Badge{
	PriorityLow:    {"Baixa", "bg-green-100 text-green-800"},
	PriorityMedium: {"Média", "bg-yellow-100 text-yellow-800"},
	PriorityHigh:   {"Alta", "bg-orange-100 text-orange-800"},
	PriorityUrgent: {"Urgente", "bg-red-100 text-red-800"},
}

var categoryLabels = map[string]string{
	CategoryService:   "Serviço",
	CategoryMaterial:  "Material",
	CategoryEquipment: "Equipamento",
	CategoryLabor:     "Mão de obra",
}

// summaryCategories fixes the row order of the category summary.
var summaryCategories = []string{CategoryService, CategoryMaterial, CategoryEquipment, CategoryLabor}

// StatusBadge translates a status code. Unknown codes keep their text.
func StatusBadge(status string) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return Badge{Label: status, Class: neutralBadge}
}

// PriorityBadge translates a priority code. Unknown codes keep their text.
func PriorityBadge(priority string) Badge {
	if b, ok := priorityBadges[priority]; ok {
		return b
	}
	return Badge{Label: priority, Class: neutralBadge}
}

// CategoryLabel translates an item category.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// DiscountTypeLabel names the discount kind.
func DiscountTypeLabel(discountType string) string {
	if discountType == DiscountPercentage {
		return "Percentual"
	}
	return "Valor Fixo"
}
