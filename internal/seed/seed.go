// Package seed holds the static bootstrap data inserted by the seeding
// procedure. Every record carries a fixed id (or unique month) so that
// reseeding is a no-op for rows that already exist.
package seed

type User struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

type Invoice struct {
	ID         string
	CustomerID string
	Amount     int
	Status     string
	Date       string
}

type Revenue struct {
	Month   string
	Revenue int
}

type Fixtures struct {
	Users     []User
	Customers []Customer
	Invoices  []Invoice
	Revenue   []Revenue
}

func Data() Fixtures {
	return Fixtures{
		Users: []User{
			{
				ID:       "410544b2-4001-4271-9855-fec4b6a6442a",
				Name:     "User",
				Email:    "user@nextmail.com",
				Password: "123456",
			},
		},
		Customers: customers,
		Invoices:  invoices,
		Revenue:   revenue,
	}
}

var customers = []Customer{
	{
		ID:       "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa",
		Name:     "Evil Rabbit",
		Email:    "evil@rabbit.com",
		ImageURL: "/customers/evil-rabbit.png",
	},
	{
		ID:       "3958dc9e-712f-4377-85e9-fec4b6a6442a",
		Name:     "Delba de Oliveira",
		Email:    "delba@oliveira.com",
		ImageURL: "/customers/delba-de-oliveira.png",
	},
	{
		ID:       "3958dc9e-742f-4377-85e9-fec4b6a6442a",
		Name:     "Lee Robinson",
		Email:    "lee@robinson.com",
		ImageURL: "/customers/lee-robinson.png",
	},
	{
		ID:       "76d65c26-f784-44a2-ac19-586678f7c2f2",
		Name:     "Michael Novotny",
		Email:    "michael@novotny.com",
		ImageURL: "/customers/michael-novotny.png",
	},
	{
		ID:       "cc27c14a-0acf-4f4a-a6c9-d45682c144b9",
		Name:     "Amy Burns",
		Email:    "amy@burns.com",
		ImageURL: "/customers/amy-burns.png",
	},
	{
		ID:       "13d07535-c59e-4157-a011-f8d2ef4e0cbb",
		Name:     "Balazs Orban",
		Email:    "balazs@orban.com",
		ImageURL: "/customers/balazs-orban.png",
	},
}

var invoices = []Invoice{
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e01", CustomerID: customers[0].ID, Amount: 15795, Status: "pending", Date: "2022-12-06"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e02", CustomerID: customers[1].ID, Amount: 20348, Status: "pending", Date: "2022-11-14"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e03", CustomerID: customers[4].ID, Amount: 3040, Status: "paid", Date: "2022-10-29"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e04", CustomerID: customers[3].ID, Amount: 44800, Status: "paid", Date: "2023-09-10"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e05", CustomerID: customers[5].ID, Amount: 34577, Status: "pending", Date: "2023-08-05"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e06", CustomerID: customers[2].ID, Amount: 54246, Status: "pending", Date: "2023-07-16"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e07", CustomerID: customers[0].ID, Amount: 666, Status: "pending", Date: "2023-06-27"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e08", CustomerID: customers[3].ID, Amount: 32545, Status: "paid", Date: "2023-06-09"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e09", CustomerID: customers[4].ID, Amount: 1250, Status: "paid", Date: "2023-06-17"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e10", CustomerID: customers[5].ID, Amount: 8546, Status: "paid", Date: "2023-06-07"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e11", CustomerID: customers[1].ID, Amount: 500, Status: "paid", Date: "2023-08-19"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e12", CustomerID: customers[5].ID, Amount: 8945, Status: "paid", Date: "2023-06-03"},
	{ID: "b2f1a6d0-6f7e-4a01-9d7b-1a2b3c4d5e13", CustomerID: customers[2].ID, Amount: 1000, Status: "paid", Date: "2022-06-05"},
}

var revenue = []Revenue{
	{Month: "Jan", Revenue: 2000},
	{Month: "Feb", Revenue: 1800},
	{Month: "Mar", Revenue: 2200},
	{Month: "Apr", Revenue: 2500},
	{Month: "May", Revenue: 2300},
	{Month: "Jun", Revenue: 3200},
	{Month: "Jul", Revenue: 3500},
	{Month: "Aug", Revenue: 3700},
	{Month: "Sep", Revenue: 2500},
	{Month: "Oct", Revenue: 2800},
	{Month: "Nov", Revenue: 3000},
	{Month: "Dec", Revenue: 4800},
}
