package models

type Address struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	City     string `gorm:"index" json:"city"`
	Province string `gorm:"index" json:"province"`
	Country  string `json:"country"`
	ZipCode  string `json:"zip_code"`
}

type Client struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	GUUID    string  `gorm:"uniqueIndex;not null" json:"guuid"`
	UserID   uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	DNI      string  `gorm:"uniqueIndex;not null" json:"dni"`
	Name     string  `json:"name"`
	Surname  string  `json:"surname"`
	Address  Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	DNIPhoto string  `json:"dni_photo"`
	Audit
}

func (c *Client) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}
