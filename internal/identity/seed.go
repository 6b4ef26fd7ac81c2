package identity

// SeedUsers returns the demo accounts checked before registered users
// during authentication. They are never persisted.
func SeedUsers() []User {
	return []User{
		{
			ID:     "1",
			Name:   "Rafael Pinheiro",
			Email:  "rafaelpnascimento@14gmail.com",
			Phone:  "65 992880639",
			Role:   RoleManager,
			Secret: "141004",
		},
		{
			ID:     "2",
			Name:   "Heloisa Capistrano",
			Email:  "helocapistrano10@gmail.com",
			Phone:  "65 999579409",
			Role:   RoleAgent,
			Secret: "061006",
		},
		{
			ID:         "3",
			Name:       "Karine Pinheiro",
			Email:      "rn4364729@gmail.com",
			Phone:      "65 999035659",
			NationalID: "12345678900",
			Role:       RolePatient,
			Secret:     "130597",
		},
	}
}
