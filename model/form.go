package model

//CreateUserForm registers a new user under the authenticated pubkey
type CreateUserForm struct {
	CallSign string `json:"callSign" validate:"required,lte=32" format:"trim,lower"` //unique, case-insensitive
}

//CreateUserFieldTrans field display names, for validator details
func (form CreateUserForm) CreateUserFieldTrans() FieldTrans {
	return FieldTrans{"CallSign": "call sign"}
}

//GetUserForm looks a user up by pubkey or call sign, exactly one required
type GetUserForm struct {
	Pubkey   string `json:"pubkey,omitempty" validate:"omitempty,lte=56" format:"trim"`
	CallSign string `json:"callSign,omitempty" validate:"omitempty,lte=32" format:"trim,lower"`
}

//GetUserFieldTrans field display names
func (form GetUserForm) GetUserFieldTrans() FieldTrans {
	return FieldTrans{"Pubkey": "pubkey", "CallSign": "call sign"}
}

//UserInfosForm appends a profile snapshot for the authenticated user.
//All fields optional, missing ones are carried over from the latest
//snapshot.
type UserInfosForm struct {
	FullName    string `json:"fullName,omitempty" validate:"omitempty,lte=256" format:"trim"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,lte=32" format:"trim"`
	Address     string `json:"address,omitempty" validate:"omitempty,lte=1024" format:"trim"`
}

//UserInfosFieldTrans field display names
func (form UserInfosForm) UserInfosFieldTrans() FieldTrans {
	return FieldTrans{"FullName": "full name", "PhoneNumber": "phone number", "Address": "address"}
}

//PurchaseForm requests a purchase of the platform currency (BUL) or the
//network fee currency (XLM); the requested currency comes from the route
type PurchaseForm struct {
	EuroCents       int64  `json:"euroCents" validate:"required,gte=1"`             //requested value, euro cents
	PaymentCurrency string `json:"paymentCurrency" validate:"required" format:"trim"` //BTC or ETH
}

//PurchaseFieldTrans field display names
func (form PurchaseForm) PurchaseFieldTrans() FieldTrans {
	return FieldTrans{"EuroCents": "euro cents", "PaymentCurrency": "payment currency"}
}
