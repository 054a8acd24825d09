package clean

import (
	"strings"

	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/normalize"
	"github.com/meditrak/opsdash/internal/source"
)

// Reference lookups join on the normalized name key; the key must be unique
// per table, so duplicates are dropped on the key (first occurrence wins).

// Doctors cleans the doctor master into specialty lookups.
func Doctors(tbl *source.Table) ([]model.DoctorRef, error) {
	if err := tbl.Require("DOCTOR NAME", "SPECIALITY"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, tbl.Len())
	out := make([]model.DoctorRef, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		name := tbl.Field(i, "DOCTOR NAME")
		key := normalize.Key(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.DoctorRef{
			Key:       key,
			Name:      strings.TrimSpace(name),
			Specialty: strings.TrimSpace(tbl.Field(i, "SPECIALITY")),
		})
	}
	return out, nil
}

// ServiceGroups cleans a charge-code master (IPD or OPD) into group lookups.
// Group values are normalized the same way as keys so report groupings
// collapse spelling variants; blank groups become NOTAPPLICABLE.
func ServiceGroups(tbl *source.Table) ([]model.ServiceGroupRef, error) {
	if err := tbl.Require("srv_desc", "Group"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, tbl.Len())
	out := make([]model.ServiceGroupRef, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		desc := tbl.Field(i, "srv_desc")
		key := normalize.Key(desc)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		group := normalize.Key(tbl.Field(i, "Group"))
		if group == "" {
			group = "NOTAPPLICABLE"
		}
		out = append(out, model.ServiceGroupRef{
			Key:         key,
			ServiceDesc: strings.TrimSpace(desc),
			Group:       group,
		})
	}
	return out, nil
}

// TPAs cleans the TPA mapping into company-category lookups.
func TPAs(tbl *source.Table) ([]model.TPARef, error) {
	if err := tbl.Require("Company", "Type of Company"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, tbl.Len())
	out := make([]model.TPARef, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		company := tbl.Field(i, "Company")
		key := normalize.Key(company)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.TPARef{
			Key:      key,
			Company:  strings.TrimSpace(company),
			Category: strings.TrimSpace(tbl.Field(i, "Type of Company")),
		})
	}
	return out, nil
}

// Agents cleans the marketing-agent master.
func Agents(tbl *source.Table) ([]model.AgentRef, error) {
	if err := tbl.Require("Marketing Agents"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, tbl.Len())
	out := make([]model.AgentRef, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		name := tbl.Field(i, "Marketing Agents")
		key := normalize.Key(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.AgentRef{Key: key, Name: strings.TrimSpace(name)})
	}
	return out, nil
}

// TPAClaims cleans the external TPA settlement sheet. An empty table (the
// fetch degraded after retries) yields no claims and no error; a non-empty
// table missing the expected columns aborts.
func TPAClaims(tbl *source.Table) ([]model.TPAClaim, error) {
	if tbl.Len() == 0 {
		return nil, nil
	}
	if err := tbl.Require("voucher_number", "Claim_No", "Approved Amt", "Settlement Gross", "CREDIT COMPANY"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, tbl.Len())
	out := make([]model.TPAClaim, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		vchNo := normalize.ID(tbl.Field(i, "voucher_number"))
		if vchNo == "" || seen[vchNo] {
			continue
		}
		seen[vchNo] = true
		approved, _ := normalize.Amount(tbl.Field(i, "Approved Amt"))
		gross, _ := normalize.Amount(tbl.Field(i, "Settlement Gross"))
		out = append(out, model.TPAClaim{
			VoucherNo:       vchNo,
			ClaimNo:         strings.TrimSpace(tbl.Field(i, "Claim_No")),
			ApprovedAmount:  approved,
			SettlementGross: gross,
			CreditCompany:   strings.ToUpper(strings.TrimSpace(tbl.Field(i, "CREDIT COMPANY"))),
		})
	}
	return out, nil
}
