package reference

// PhoneKind groups emergency numbers.
type PhoneKind string

const (
	PhoneKindAll      PhoneKind = "all"
	PhoneKindGeneral  PhoneKind = "general"
	PhoneKindHealth   PhoneKind = "health"
	PhoneKindSecurity PhoneKind = "security"
	PhoneKindUtility  PhoneKind = "utility"
)

// PhoneKinds lists the directory tabs in display order.
var PhoneKinds = []PhoneKind{PhoneKindAll, PhoneKindGeneral, PhoneKindHealth, PhoneKindSecurity, PhoneKindUtility}

type Phone struct {
	Name   string    `json:"name"`
	Number string    `json:"number"`
	Kind   PhoneKind `json:"kind"`
}

var directory = []Phone{
	{"Emergency Call Center", "112", PhoneKindGeneral},
	{"Police", "155", PhoneKindSecurity},
	{"Gendarmerie", "156", PhoneKindSecurity},
	{"Fire Department", "110", PhoneKindGeneral},
	{"Ambulance", "112", PhoneKindHealth},
	{"Coast Guard", "158", PhoneKindSecurity},
	{"Disaster and Emergency Management (AFAD)", "122", PhoneKindGeneral},
	{"Forest Fire Report", "177", PhoneKindGeneral},
	{"Funeral Services", "188", PhoneKindGeneral},
	{"Electricity Outage", "186", PhoneKindUtility},
	{"Natural Gas Emergency", "187", PhoneKindUtility},
	{"Water Outage", "185", PhoneKindUtility},
	{"Doctor Hotline", "113", PhoneKindHealth},
	{"Health Information", "184", PhoneKindHealth},
	{"Poison Control", "114", PhoneKindHealth},
	{"Narcotics Hotline", "191", PhoneKindSecurity},
	{"Traffic Report", "154", PhoneKindSecurity},
	{"Women's Support Line", "183", PhoneKindSecurity},
	{"Tourist Police", "0 212 527 45 03", PhoneKindSecurity},
	{"Telecom Outage", "121", PhoneKindUtility},
	{"Telecom Billing", "163", PhoneKindUtility},
	{"Post Office Information", "161", PhoneKindUtility},
	{"Hearing Impaired Line", "0850 288 50 60", PhoneKindHealth},
}

// Phones returns the directory entries of the given kind. PhoneKindAll and the
// empty kind return the whole directory. The result is a copy.
func Phones(kind PhoneKind) []Phone {
	out := make([]Phone, 0, len(directory))
	for _, p := range directory {
		if kind == "" || kind == PhoneKindAll || p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// ValidPhoneKind reports whether kind is one of PhoneKinds.
func ValidPhoneKind(kind PhoneKind) bool {
	for _, k := range PhoneKinds {
		if k == kind {
			return true
		}
	}
	return false
}
