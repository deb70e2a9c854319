package dto

type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
}

type ClientRequest struct {
	DNI     string  `json:"dni"`
	Name    string  `json:"name"`
	Surname string  `json:"surname"`
	Address Address `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
}

type ClientUpdateRequest struct {
	Name    *string  `json:"name,omitempty"`
	Surname *string  `json:"surname,omitempty"`
	Address *Address `json:"address,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
	Email   *string  `json:"email,omitempty"`
}

type ClientResponse struct {
	ID        uint    `json:"id"`
	GUUID     string  `json:"guuid"`
	DNI       string  `json:"dni"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	Address   Address `json:"address"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	DNIPhoto  string  `json:"dniPhoto,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}
