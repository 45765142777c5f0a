package entsoe

import "github.com/kilianp07/gridfeed/core/model"

// unitsToZone maps generating unit names, as published, to their zone.
var unitsToZone = map[string]model.ZoneKey{
	// DK-DK1
	"Anholt":                   "DK-DK1",
	"Esbjergvaerket 3":         "DK-DK1",
	"Fynsvaerket 7":            "DK-DK1",
	"Horns Rev A":              "DK-DK1",
	"Horns Rev B":              "DK-DK1",
	"Nordjyllandsvaerket 3":    "DK-DK1",
	"Silkeborgvaerket":         "DK-DK1",
	"Skaerbaekvaerket 3":       "DK-DK1",
	"Studstrupvaerket 3":       "DK-DK1",
	"Studstrupvaerket 4":       "DK-DK1",
	// DK-DK2
	"Amagervaerket 3":          "DK-DK2",
	"Asnaesvaerket 2":          "DK-DK2",
	"Asnaesvaerket 5":          "DK-DK2",
	"Avedoerevaerket 1":        "DK-DK2",
	"Avedoerevaerket 2":        "DK-DK2",
	"Kyndbyvaerket 21":         "DK-DK2",
	"Kyndbyvaerket 22":         "DK-DK2",
	"Roedsand 1":               "DK-DK2",
	"Roedsand 2":               "DK-DK2",
	// FI
	"Alholmens B2":             "FI",
	"Haapavesi B1":             "FI",
	"Kaukaan Voima G10":        "FI",
	"Keljonlahti B1":           "FI",
	"Loviisa 1 G11":            "FI",
	"Loviisa 1 G12":            "FI",
	"Loviisa 2 G21":            "FI",
	"Loviisa 2 G22":            "FI",
	"Olkiluoto 1 B1":           "FI",
	"Olkiluoto 2 B2":           "FI",
	"Toppila B2":               "FI",
	// SE
	"Bastusel G1":              "SE",
	"Forsmark block 1 G11":     "SE",
	"Forsmark block 1 G12":     "SE",
	"Forsmark block 2 G21":     "SE",
	"Forsmark block 2 G22":     "SE",
	"Forsmark block 3 G31":     "SE",
	"Gallejaur G1":             "SE",
	"Gallejaur G2":             "SE",
	"Gasturbiner Halmstad G12": "SE",
	"HarsprÃ¥nget G1":          "SE",
	"HarsprÃ¥nget G2":          "SE",
	"HarsprÃ¥nget G4":          "SE",
	"HarsprÃ¥nget G5":          "SE",
	"KVV Västerås G3":          "SE",
	"KVV1 VÃ¤rtaverket":        "SE",
	"KVV6 VÃ¤rtaverket ":       "SE",
	"KVV8 VÃ¤rtaverket":        "SE",
	"Karlshamn G1":             "SE",
	"Karlshamn G2":             "SE",
	"Karlshamn G3":             "SE",
	"Letsi G1":                 "SE",
	"Letsi G2":                 "SE",
	"Letsi G3":                 "SE",
	"Ligga G3":                 "SE",
	"Messaure G1":              "SE",
	"Messaure G2":              "SE",
	"Messaure G3":              "SE",
	"Oskarshamn G1Ö+G1V":       "SE",
	"Oskarshamn G3":            "SE",
	"Porjus G11":               "SE",
	"Porjus G12":               "SE",
	"Porsi G3":                 "SE",
	"Ringhals block 1 G11":     "SE",
	"Ringhals block 1 G12":     "SE",
	"Ringhals block 2 G21":     "SE",
	"Ringhals block 2 G22":     "SE",
	"Ringhals block 3 G31":     "SE",
	"Ringhals block 3 G32":     "SE",
	"Ringhals block 4 G41":     "SE",
	"Ringhals block 4 G42":     "SE",
	"Ritsem G1":                "SE",
	"Rya KVV":                  "SE",
	"Seitevare G1":             "SE",
	"Stalon G1":                "SE",
	"Stenungsund B3":           "SE",
	"Stenungsund B4":           "SE",
	"Stornorrfors G1":          "SE",
	"Stornorrfors G2":          "SE",
	"Stornorrfors G3":          "SE",
	"Stornorrfors G4":          "SE",
	"TrÃ¤ngslet G1":            "SE",
	"TrÃ¤ngslet G2":            "SE",
	"TrÃ¤ngslet G3":            "SE",
	"Uppsala KVV":              "SE",
	"Vietas G1":                "SE",
	"Vietas G2":                "SE",
	"Ãbyverket Ãrebro":       "SE",
}
