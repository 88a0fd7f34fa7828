package models

// Party is an organization record from the Russian state registry as served by DaData.
type Party struct {
	INN              string          `json:"inn"`
	OGRN             string          `json:"ogrn"`
	KPP              string          `json:"kpp"`
	Name             PartyName       `json:"name"`
	Address          PartyAddress    `json:"address"`
	Management       PartyManagement `json:"management"`
	Status           PartyStatus     `json:"status"`
	RegistrationDate *int64          `json:"registrationDate"`
	Type             string          `json:"type"`
	OPF              PartyOPF        `json:"opf"`
}

type PartyName struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

type PartyAddress struct {
	Full string                 `json:"full"`
	Data map[string]interface{} `json:"data"`
}

type PartyManagement struct {
	Name string `json:"name"`
	Post string `json:"post"`
}

type PartyStatus struct {
	Code     string `json:"code"`
	IsActive bool   `json:"isActive"`
	Text     string `json:"text"`
}

type PartyOPF struct {
	Code  string `json:"code"`
	Full  string `json:"full"`
	Short string `json:"short"`
}
