package dashboard

import (
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

func purchase(age int, gender, category, item string, amount int64, season string) domain.Purchase {
	return domain.Purchase{
		Age:      age,
		Gender:   gender,
		Category: category,
		Item:     item,
		Amount:   decimal.NewFromInt(amount),
		Season:   season,
	}
}

func twoRowDataset() domain.Dataset {
	return domain.NewDataset([]domain.Purchase{
		purchase(25, "Male", "Shoes", "Boots", 50, "Winter"),
		purchase(30, "Female", "Shoes", "Sandals", 30, "Summer"),
	}, nil)
}

func wideDataset() domain.Dataset {
	return domain.NewDataset([]domain.Purchase{
		purchase(19, "Male", "Clothing", "Blouse", 53, "Winter"),
		purchase(19, "Male", "Clothing", "Sweater", 64, "Winter"),
		purchase(50, "Male", "Clothing", "Jeans", 73, "Spring"),
		purchase(21, "Male", "Footwear", "Sandals", 90, "Spring"),
		purchase(45, "Female", "Clothing", "Blouse", 49, "Spring"),
		purchase(46, "Female", "Footwear", "Sneakers", 20, "Summer"),
		purchase(63, "Female", "Accessories", "Belt", 85, "Fall"),
		purchase(27, "Female", "Outerwear", "Coat", 34, "Winter"),
		purchase(26, "Male", "Accessories", "Belt", 97, "Summer"),
		purchase(57, "Male", "Outerwear", "Jacket", 31, "Fall"),
	}, nil)
}

func scenarioSpec() domain.FilterSpec {
	return domain.FilterSpec{
		Age:        domain.IntRange{Min: 0, Max: 100},
		Amount:     domain.DecimalRange{Min: decimal.Zero, Max: decimal.NewFromInt(100)},
		Genders:    []string{"Male", "Female"},
		Categories: []string{"Shoes"},
		Items:      []string{"Boots", "Sandals"},
	}
}
