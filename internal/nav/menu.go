package nav

// Item is one sidebar entry. Groups carry Submenu instead of Path.
type Item struct {
	Name    string   `json:"name"`
	Icon    string   `json:"icon,omitempty"`
	Path    string   `json:"path,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	Submenu []Item   `json:"submenu,omitempty"`
}

// Menu builds the admin sidebar. Roles for each path come from roles;
// a path missing from the map is open to every role.
func Menu(roles map[string][]string) []Item {
	leaf := func(name, icon, path string) Item {
		return Item{Name: name, Icon: icon, Path: path, Roles: roles[path]}
	}
	return []Item{
		leaf("Reservas", "calendar", "/reservas"),
		{Name: "Clientes", Icon: "users", Submenu: []Item{
			leaf("Lista", "", "/clientes/lista"),
			leaf("Deudas", "", "/clientes/deudas"),
		}},
		leaf("Servicios", "wrench", "/servicios"),
		leaf("Choferes", "user", "/choferes"),
		leaf("Usuarios", "settings", "/usuarios"),
		{Name: "Direcciones", Icon: "map-pin", Submenu: []Item{
			leaf("Subidas y bajadas", "", "/direcciones/subidas-bajadas"),
			leaf("Ciudades", "", "/direcciones/ciudades"),
		}},
		{Name: "Vehículos", Icon: "bus", Submenu: []Item{
			leaf("Coches", "", "/vehiculos/coches"),
			leaf("Tipos de vehículo", "", "/vehiculos/tipos"),
		}},
		leaf("Precios", "credit-card", "/precios"),
		leaf("Mis Datos", "user-check", "/mis-datos"),
	}
}

// ForRole keeps the entries role may see. Groups left without entries are
// dropped.
func ForRole(items []Item, role string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !allowed(item.Roles, role) {
			continue
		}
		if item.Submenu != nil {
			item.Submenu = ForRole(item.Submenu, role)
			if len(item.Submenu) == 0 {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func allowed(roles []string, role string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
