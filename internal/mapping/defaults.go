package mapping

// Languages lists the translated trees maintained next to the canonical one.
var Languages = []string{"cs", "da", "el", "en", "es", "fi", "fr", "hu", "it", "nl", "no", "pl", "pt", "sv"}

// DefaultTables returns the built-in name tables for a German canonical tree.
func DefaultTables() Tables {
	return Tables{
		Canonical:       "de",
		DefaultLanguage: "en",
		TourKeyword:     "tour",
		Directories: map[string]map[string]string{
			"en": {
				"dokumentation": "documentation",
				"produkt":       "product",
				"persoenlich":   "personal-use",
				"geschaeftlich": "business-use",
				"preise":        "pricing",
				"unternehmen":   "company",
				"ressourcen":    "resources",
				"download":      "download",
				"intern":        "internal",
				"offerte":       "quote",
			},
			"fr": {
				"dokumentation": "documentation",
				"produkt":       "produit",
				"persoenlich":   "utilisation-personnelle",
				"geschaeftlich": "utilisation-professionnelle",
				"preise":        "tarification",
				"unternehmen":   "societe",
				"ressourcen":    "ressources",
				"download":      "telecharger",
				"offerte":       "offre",
			},
			"es": {
				"dokumentation": "documentacion",
				"produkt":       "producto",
				"persoenlich":   "uso-personal",
				"geschaeftlich": "uso-comercial",
				"preise":        "precios",
				"unternehmen":   "empresa",
				"ressourcen":    "recursos",
				"download":      "descargar",
				"offerte":       "oferta",
			},
			"it": {
				"dokumentation": "documentation",
				"produkt":       "product",
				"persoenlich":   "personal-use",
				"geschaeftlich": "business-use",
				"preise":        "pricing",
				"unternehmen":   "company",
				"ressourcen":    "resources",
				"download":      "download",
				"offerte":       "quote",
			},
			"nl": {
				"dokumentation": "documentatie",
				"produkt":       "product",
				"persoenlich":   "persoonlijk-gebruik",
				"geschaeftlich": "zakelijk-gebruik",
				"preise":        "prijzen",
				"unternehmen":   "bedrijf",
				"ressourcen":    "bronnen",
				"download":      "download",
				"offerte":       "offerte",
				"support":       "ondersteuning",
			},
		},
		Files: map[string]map[string]string{
			"en": {
				"onlinehilfen.htm":        "onlinehelp.htm",
				"dokumentation.htm":       "documentation.htm",
				"systemanforderungen.htm": "systemreq.htm",
				"deinstallation.htm":      "uninstall.htm",
				"deinstallieren.htm":      "uninstalling.htm",
				"bestellen.htm":           "order.htm",
				"bestellen-server.htm":    "order-server.htm",
				"danke.htm":               "thankyou.htm",
				"impressum.htm":           "imprint.htm",
				"ueber.htm":               "about.htm",
				"datenschutz.htm":         "privacy.htm",
				"agb.htm":                 "tos.htm",
				"bilder.htm":              "screenshots.htm",
				"vorherige.htm":           "previous.htm",
				"was-ist-neu.htm":         "whats-new.htm",
			},
		},
		Tour: map[string]map[string]string{
			"en": {
				"authentifizierung.htm":                     "authentication.htm",
				"topleiste.htm":                             "topbar.htm",
				"passwort-automatisch-ausfuellen-addon.htm": "auto-fill-web-forms-using-add-ons.htm",
				"passwort-datei-erstellen.htm":              "creating-a-new-password-file.htm",
				"passwoerter-mobile-geraete.htm":            "transferring-passwords-to-mobile-devices.htm",
				"passwort-automatisch-ausfuellen.htm":       "auto-completion-via-button.htm",
				"passwort-generator.htm":                    "password-generator.htm",
				"ordner-in-password-depot-anlegen.htm":      "creating-folders.htm",
				"sicherungskopien-erstellen.htm":            "creating-backups.htm",
				"verschluesselte-anhaenge.htm":              "encrypted-attachments.htm",
				"passworter-aus-browser-hinzufuegen.htm":    "adding-passwords-from-browser.htm",
				"sicherungskopien-oeffnen.htm":              "opening-backups.htm",
				"passwort-hinzufuegen.htm":                  "adding-password-entries.htm",
			},
		},
		Generic: []Substitution{
			{From: "passwort", To: "password"},
			{From: "kennwort", To: "password"},
			{From: "kennwoerter", To: "passwords"},
			{From: "sicherheit", To: "security"},
			{From: "herunterladen", To: "download"},
			{From: "hilfe", To: "help"},
		},
	}
}
