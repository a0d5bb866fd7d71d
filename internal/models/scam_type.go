package models

type ScamType string

const (
	ScamPhishing       ScamType = "Phishing"
	ScamInvestment     ScamType = "Investment Fraud"
	ScamOnlineShopping ScamType = "Online Shopping"
	ScamRomance        ScamType = "Romance Scam"
	ScamIdentityTheft  ScamType = "Identity Theft"
	ScamTechSupport    ScamType = "Tech Support"
	ScamLottery        ScamType = "Lottery or Prize"
	ScamEmployment     ScamType = "Employment Scam"
	ScamImpersonation  ScamType = "Impersonation"
	ScamCryptocurrency ScamType = "Cryptocurrency"
	ScamOther          ScamType = "Other"
)

var AllScamTypes = []ScamType{
	ScamPhishing,
	ScamInvestment,
	ScamOnlineShopping,
	ScamRomance,
	ScamIdentityTheft,
	ScamTechSupport,
	ScamLottery,
	ScamEmployment,
	ScamImpersonation,
	ScamCryptocurrency,
	ScamOther,
}

func ParseScamType(s string) (ScamType, bool) {
	for _, t := range AllScamTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func (t ScamType) Valid() bool {
	_, ok := ParseScamType(string(t))
	return ok
}
