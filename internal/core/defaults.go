package core

// CategorySeed is the shape of the default categories created for a user at
// registration, before they define their own.
type CategorySeed struct {
	Name     string
	Color    int64
	Keywords []string
}

// DefaultCategories is the seed set. Colors are packed ARGB values matching
// the mobile palette.
var DefaultCategories = []CategorySeed{
	{Name: "Supermercado", Color: 0xff9ec5fe, Keywords: []string{"super", "mercado", "almacen", "kiosco"}},
	{Name: "Transporte", Color: 0xfff3b0c3, Keywords: []string{"taxi", "colectivo", "subte", "combustible", "nafta"}},
	{Name: "Comida afuera", Color: 0xfffecba1, Keywords: []string{"restaurante", "delivery", "bar", "cena", "almuerzo"}},
	{Name: "Salidas", Color: 0xffe2c6fe, Keywords: []string{"cine", "teatro", "show", "concierto", "ocio"}},
	{Name: "Farmacia", Color: 0xffa3cfbb, Keywords: []string{"farmacia", "medicamento", "remedio", "perfumeria"}},
	{Name: "Servicios", Color: 0xffffd966, Keywords: []string{"luz", "gas", "internet", "servicio"}},
}

// categoryTitles maps category names to plausible sample item titles for the
// mock receipt generator.
var categoryTitles = map[string][]string{
	"Supermercado":  {"Leche 1L", "Pan lactal", "Queso cremoso", "Detergente", "Fideos", "Yerba"},
	"Transporte":    {"Uber viaje", "Subte", "Colectivo", "Nafta", "Peaje"},
	"Comida afuera": {"Pizza muzza", "Hamburguesa doble", "Empanadas", "Café", "Sushi combo"},
	"Salidas":       {"Cine 2D", "Teatro", "Concierto", "Bar cerveza"},
	"Farmacia":      {"Ibuprofeno", "Alcohol", "Jabón líquido", "Protector solar"},
}

// SampleTitles returns the title pool for a category name, falling back to
// generated variants for categories without a table entry.
func SampleTitles(name string) []string {
	if titles, ok := categoryTitles[name]; ok {
		return titles
	}
	return []string{
		name + " básico",
		name + " especial",
		name + " oferta",
		name + " extra",
	}
}
