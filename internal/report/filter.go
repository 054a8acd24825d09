// Package report is the pure read side: filters, KPI aggregates, breakdowns
// and the accreditation cross-tabs, all computed over fact slices without
// touching storage.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/meditrak/opsdash/internal/model"
)

// Filter selects IP fact rows. Every list field is a case-insensitive
// exact-match OR within the field and AND across fields; an empty list means
// no constraint. Values not present in the data simply match nothing.
type Filter struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	Doctors               []string `json:"doctors,omitempty"`
	Referrers             []string `json:"referrers,omitempty"`
	ConsultantSpecialties []string `json:"consultant_specialties,omitempty"`
	ReferralSpecialties   []string `json:"referral_specialties,omitempty"`
	Groups                []string `json:"groups,omitempty"`
	CreditCompanies       []string `json:"credit_companies,omitempty"`
	TPACategories         []string `json:"tpa_categories,omitempty"`
	CaseTypes             []string `json:"case_types,omitempty"`
	Expired               []string `json:"expired,omitempty"`
	PatientStatus         []string `json:"patient_status,omitempty"`
}

type matchSet map[string]bool

func newMatchSet(values []string) matchSet {
	if len(values) == 0 {
		return nil
	}
	m := make(matchSet, len(values))
	for _, v := range values {
		m[strings.ToUpper(strings.TrimSpace(v))] = true
	}
	return m
}

// nil set matches everything.
func (m matchSet) match(v string) bool {
	return m == nil || m[strings.ToUpper(strings.TrimSpace(v))]
}

// Apply returns the rows matching the filter. The result is a fresh slice;
// the input is never mutated.
func (f *Filter) Apply(rows []model.Admission) []model.Admission {
	doctors := newMatchSet(f.Doctors)
	referrers := newMatchSet(f.Referrers)
	consultSpec := newMatchSet(f.ConsultantSpecialties)
	referralSpec := newMatchSet(f.ReferralSpecialties)
	groups := newMatchSet(f.Groups)
	credits := newMatchSet(f.CreditCompanies)
	tpas := newMatchSet(f.TPACategories)
	caseTypes := newMatchSet(f.CaseTypes)
	expired := newMatchSet(f.Expired)
	status := newMatchSet(f.PatientStatus)

	out := make([]model.Admission, 0, len(rows))
	for _, r := range rows {
		if f.From != nil || f.To != nil {
			if r.DischargeDate == nil {
				continue
			}
			if f.From != nil && r.DischargeDate.Before(*f.From) {
				continue
			}
			if f.To != nil && r.DischargeDate.After(*f.To) {
				continue
			}
		}
		if !doctors.match(r.DoctorName) ||
			!referrers.match(r.ReferrerName) ||
			!consultSpec.match(r.ConsultantSpecialty) ||
			!referralSpec.match(r.ReferralSpecialty) ||
			!groups.match(r.Group) ||
			!credits.match(r.CreditCompany) ||
			!tpas.match(r.TPACategory) ||
			!caseTypes.match(r.CaseType) ||
			!expired.match(r.Expired) ||
			!status.match(r.PatientStatus) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterValues holds the distinct values of each filterable column, for
// populating dashboard dropdowns.
type FilterValues struct {
	Doctors               []string `json:"doctors"`
	Referrers             []string `json:"referrers"`
	ConsultantSpecialties []string `json:"consultant_specialties"`
	ReferralSpecialties   []string `json:"referral_specialties"`
	Groups                []string `json:"groups"`
	CreditCompanies       []string `json:"credit_companies"`
	TPACategories         []string `json:"tpa_categories"`
	CaseTypes             []string `json:"case_types"`
	PatientStatus         []string `json:"patient_status"`
}

// DistinctValues scans the fact rows once and collects the sorted distinct
// values per filterable column.
func DistinctValues(rows []model.Admission) *FilterValues {
	sets := make([]map[string]bool, 9)
	for i := range sets {
		sets[i] = map[string]bool{}
	}
	for _, r := range rows {
		sets[0][r.DoctorName] = true
		sets[1][r.ReferrerName] = true
		sets[2][r.ConsultantSpecialty] = true
		sets[3][r.ReferralSpecialty] = true
		sets[4][r.Group] = true
		sets[5][r.CreditCompany] = true
		sets[6][r.TPACategory] = true
		sets[7][r.CaseType] = true
		sets[8][r.PatientStatus] = true
	}
	return &FilterValues{
		Doctors:               sorted(sets[0]),
		Referrers:             sorted(sets[1]),
		ConsultantSpecialties: sorted(sets[2]),
		ReferralSpecialties:   sorted(sets[3]),
		Groups:                sorted(sets[4]),
		CreditCompanies:       sorted(sets[5]),
		TPACategories:         sorted(sets[6]),
		CaseTypes:             sorted(sets[7]),
		PatientStatus:         sorted(sets[8]),
	}
}

func sorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
