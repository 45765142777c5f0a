package entsoe

import "github.com/kilianp07/gridfeed/core/model"

// domains maps zone keys to transparency platform area codes.
var domains = map[model.ZoneKey]string{
	"AL":     "10YAL-KESH-----5",
	"AT":     "10YAT-APG------L",
	"AX":     "10Y1001A1001A46L", // price only, Åland uses the SE-SE3 area price
	"BA":     "10YBA-JPCC-----D",
	"BE":     "10YBE----------2",
	"BG":     "10YCA-BULGARIA-R",
	"BY":     "10Y1001A1001A51S",
	"CH":     "10YCH-SWISSGRIDZ",
	"CZ":     "10YCZ-CEPS-----N",
	"DE":     "10Y1001A1001A83F",
	"DE-LU":  "10Y1001A1001A82H",
	"DK":     "10Y1001A1001A65H",
	"DK-DK1": "10YDK-1--------W",
	"DK-DK2": "10YDK-2--------M",
	"EE":     "10Y1001A1001A39I",
	"ES":     "10YES-REE------0",
	"FI":     "10YFI-1--------U",
	"FR":     "10YFR-RTE------C",
	"GB":     "10YGB----------A",
	"GB-NIR": "10Y1001A1001A016",
	"GR":     "10YGR-HTSO-----Y",
	"HR":     "10YHR-HEP------M",
	"HU":     "10YHU-MAVIR----U",
	"IE":     "10YIE-1001A00010",
	"IT":     "10YIT-GRTN-----B",
	"IT-BR":  "10Y1001A1001A699",
	"IT-CNO": "10Y1001A1001A70O",
	"IT-CSO": "10Y1001A1001A71M",
	"IT-FO":  "10Y1001A1001A72K",
	"IT-NO":  "10Y1001A1001A73I",
	"IT-PR":  "10Y1001A1001A76C",
	"IT-RO":  "10Y1001A1001A77A",
	"IT-SAR": "10Y1001A1001A74G",
	"IT-SIC": "10Y1001A1001A75E",
	"IT-SO":  "10Y1001A1001A788",
	"LT":     "10YLT-1001A0008Q",
	"LU":     "10YLU-CEGEDEL-NQ",
	"LV":     "10YLV-1001A00074",
	"ME":     "10YCS-CG-TSO---S",
	"MK":     "10YMK-MEPSO----8",
	"MT":     "10Y1001A1001A93C",
	"NL":     "10YNL----------L",
	"NO":     "10YNO-0--------C",
	"NO-NO1": "10YNO-1--------2",
	"NO-NO2": "10YNO-2--------T",
	"NO-NO3": "10YNO-3--------J",
	"NO-NO4": "10YNO-4--------9",
	"NO-NO5": "10Y1001A1001A48H",
	"PL":     "10YPL-AREA-----S",
	"PT":     "10YPT-REN------W",
	"RO":     "10YRO-TEL------P",
	"RS":     "10YCS-SERBIATSOV",
	"RU":     "10Y1001A1001A49F",
	"RU-KGD": "10Y1001A1001A50U",
	"SE":     "10YSE-1--------K",
	"SE-SE1": "10Y1001A1001A44P",
	"SE-SE2": "10Y1001A1001A45N",
	"SE-SE3": "10Y1001A1001A46L",
	"SE-SE4": "10Y1001A1001A47J",
	"SI":     "10YSI-ELES-----O",
	"SK":     "10YSK-SEPS-----K",
	"TR":     "10YTR-TEIAS----W",
	"UA":     "10YUA-WEPS-----0",
}

// unitAreas maps zones to the control area generation per unit is
// published for.
var unitAreas = map[model.ZoneKey]string{
	"DK-DK1": "10Y1001A1001A796",
	"DK-DK2": "10Y1001A1001A796",
	"FI":     "10YFI-1--------U",
	"PL":     "10YPL-AREA-----S",
	"SE":     "10YSE-1--------K",
}

// exchangeOverrides holds the domains of pairs that are not published between
// the zones' own areas, in sorted pair order.
var exchangeOverrides = map[string][2]string{
	"AT->IT-NO":      {domains["AT"], domains["IT"]},
	"BY->UA":         {domains["BY"], "10Y1001C--00003F"},
	"DE->DK-DK1":     {domains["DE-LU"], domains["DK-DK1"]},
	"DE->DK-DK2":     {domains["DE-LU"], domains["DK-DK2"]},
	"DE->SE-SE4":     {domains["DE-LU"], domains["SE-SE4"]},
	"DK-DK2->SE":     {domains["DK-DK2"], domains["SE-SE4"]},
	"FR-COR->IT-CNO": {"10Y1001A1001A893", domains["IT-CNO"]},
	"GR->IT-SO":      {"10YGR-HTSO-----Y", domains["IT-BR"]},
	"NO-NO3->SE":     {domains["NO-NO3"], domains["SE-SE2"]},
	"NO-NO1->SE":     {domains["NO-NO1"], domains["SE-SE3"]},
	"PL->UA":         {domains["PL"], "10Y1001A1001A869"},
	"IT-SIC->IT-SO":  {domains["IT-SIC"], "10Y1001A1001A77A"},
}

// priceOverrides maps zones that share the day-ahead price of a larger
// bidding zone.
var priceOverrides = map[model.ZoneKey]string{
	"DK-BHM": domains["DK-DK2"],
	"DE":     domains["DE-LU"],
	"IE":     "10Y1001A1001A59C",
	"LU":     domains["DE-LU"],
}

func domainFor(zone model.ZoneKey) (string, error) {
	d, ok := domains[zone]
	if !ok {
		return "", model.NewConfigError(parserName, string(zone), model.ErrUnknownZone, "no domain for zone")
	}
	return d, nil
}

func priceDomainFor(zone model.ZoneKey) (string, error) {
	if d, ok := priceOverrides[zone]; ok {
		return d, nil
	}
	return domainFor(zone)
}

func unitAreaFor(zone model.ZoneKey) (string, error) {
	d, ok := unitAreas[zone]
	if !ok {
		return "", model.NewConfigError(parserName, string(zone), model.ErrUnknownZone, "no control area for zone")
	}
	return d, nil
}

// exchangeDomains returns the domains of zone1 and zone2 in that order.
func exchangeDomains(zone1, zone2 model.ZoneKey) (string, string, error) {
	key := model.NewExchangeKey(zone1, zone2)
	if o, ok := exchangeOverrides[key.String()]; ok {
		if zone1 == key.First {
			return o[0], o[1], nil
		}
		return o[1], o[0], nil
	}
	d1, ok1 := domains[zone1]
	d2, ok2 := domains[zone2]
	if !ok1 || !ok2 {
		return "", "", model.NewConfigError(parserName, key.String(), model.ErrUnknownZone, "no domains for exchange")
	}
	return d1, d2, nil
}
