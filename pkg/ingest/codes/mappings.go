package codes

import "strings"

// Coding system identifiers used by MedlinePlus Connect.
const (
	SystemCVX    = "2.16.840.1.113883.12.292" // vaccines administered
	SystemICD10  = "2.16.840.1.113883.6.90"   // conditions
	SystemRXCUI  = "2.16.840.1.113883.6.88"   // drugs
	SystemLOINC  = "2.16.840.1.113883.6.1"    // lab tests
	SystemSNOMED = "2.16.840.1.113883.6.96"   // procedures
)

// Mapping resolves a lower-cased human term to a terminology code. The
// table is static reference data loaded once at process start; drug
// terms route their documents into the drug-safety collection, all
// others into general medical knowledge.
type Mapping struct {
	Term   string
	Code   string
	System string
}

var conditions = []Mapping{
	{"asthma", "J45.909", SystemICD10},
	{"diabetes", "E11.9", SystemICD10},
	{"hypertension", "I10", SystemICD10},
	{"fever", "R50.9", SystemICD10},
	{"covid-19", "U07.1", SystemICD10},
}

var drugs = []Mapping{
	{"ibuprofen", "5640", SystemRXCUI},
	{"metformin", "6809", SystemRXCUI},
}

var labTests = []Mapping{
	{"blood glucose", "2345-7", SystemLOINC},
	{"hemoglobin", "718-7", SystemLOINC},
}

var procedures = []Mapping{
	{"mri brain", "168731009", SystemSNOMED},
	{"ct abdomen", "77477000", SystemSNOMED},
}

var vaccines = []Mapping{
	{"adenovirus, type 4", "54", SystemCVX},
	{"adenovirus, type 7", "55", SystemCVX},
	{"adenovirus, types 4 & 7, oral", "159", SystemCVX},
	{"hepatitis a-hepatitis b (twinrix)", "104", SystemCVX},
	{"dtap-hepb-ipv (pediarix)", "110", SystemCVX},
	{"dtap-hib-ipv (pentacel)", "120", SystemCVX},
	{"dtap-ipv (kinrix)", "130", SystemCVX},
	{"dtap-ipv-hib-hepb (vaxelis)", "146", SystemCVX},
	{"meningococcal polysaccharide (mpsv4)", "32", SystemCVX},
	{"meningococcal a", "103", SystemCVX},
	{"rabies, intradermal", "40", SystemCVX},
	{"tick-borne encephalitis vaccine", "235", SystemCVX},
	{"hepatitis b immune globulin (hbig)", "30", SystemCVX},
	{"varicella zoster immune globulin", "76", SystemCVX},
	{"diphtheria antitoxin", "12", SystemCVX},
	{"tetanus immune globulin (tig)", "13", SystemCVX},
	{"botulism antitoxin", "14", SystemCVX},
	{"hep b dialysis formulation", "45", SystemCVX},
	{"hep b adjuvanted (heplisav-b)", "189", SystemCVX},
	{"influenza cell culture (cciiv)", "168", SystemCVX},
	{"influenza quadrivalent, pediatric", "153", SystemCVX},
	{"influenza quadrivalent, adult", "158", SystemCVX},
	{"cholera b subunit, killed whole cell", "26", SystemCVX},
	{"bcg intradermal", "19", SystemCVX},
	{"h1n1 monovalent, live", "125", SystemCVX},
	{"h1n1 monovalent, inactivated", "126", SystemCVX},
	{"pneumococcal pcv7", "100", SystemCVX},
	{"polio ipv, enhanced potency", "89", SystemCVX},
	{"typhoid vi capsular polysaccharide", "101", SystemCVX},
	{"yellow fever (17d strain)", "37", SystemCVX},
	{"hepatitis e recombinant vaccine", "233", SystemCVX},
	{"dengue (qdenga recombinant)", "207", SystemCVX},
	{"malaria vaccine (rtss-as01)", "232", SystemCVX},
	{"respiratory syncytial virus pediatric mab (nirsevimab)", "303", SystemCVX},
	{"respiratory syncytial virus maternal vaccine", "304", SystemCVX},
	{"h5n1 influenza vaccine", "183", SystemCVX},
	{"h7n9 influenza vaccine", "200", SystemCVX},
	{"zoster immune globulin", "188", SystemCVX},
	{"anthrax immune globulin", "227", SystemCVX},
	{"polio bivalent opv", "02", SystemCVX},
}

var index map[string]Mapping

func init() {
	index = make(map[string]Mapping)
	for _, group := range [][]Mapping{vaccines, conditions, drugs, labTests, procedures} {
		for _, m := range group {
			index[m.Term] = m
		}
	}
}

// Lookup resolves a term case-insensitively.
func Lookup(term string) (Mapping, bool) {
	m, ok := index[strings.ToLower(term)]
	return m, ok
}

// All returns every known mapping, for full ingestion runs.
func All() []Mapping {
	all := make([]Mapping, 0, len(index))
	for _, group := range [][]Mapping{vaccines, conditions, drugs, labTests, procedures} {
		all = append(all, group...)
	}
	return all
}

// IsDrug reports whether the term belongs to the drug table.
func IsDrug(term string) bool {
	m, ok := Lookup(term)
	return ok && m.System == SystemRXCUI
}
