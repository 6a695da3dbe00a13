package catalog

// seedProducts is the launch catalog. Sourced by the merchandising team;
// images live on the CDN configured at the edge.
var seedProducts = []Product{
	{
		ID:                  "shito-sauce",
		Name:                "Shito Sauce",
		Price:               25.00,
		Description:         "Spicy & Authentic black pepper sauce from Ghana. Made with the finest sun-dried peppers, smoked fish, and a secret blend of local spices.",
		Category:            CategoryPantry,
		Image:               "https://images.unsplash.com/photo-1547514701-42782101795e?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 95,
		Tags:                []string{"spicy", "authentic"},
	},
	{
		ID:                  "fresh-yam",
		Name:                "Fresh Yam",
		Price:               15.00,
		Description:         "Pona, Medium Size freshly harvested from the Northern Region. Rich in carbohydrates and perfect for frying, boiling, or pounding.",
		Category:            CategoryGrains,
		Image:               "https://images.unsplash.com/photo-1594282486552-05b4d80fbb9f?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 98,
		Tags:                []string{"local", "staple"},
	},
	{
		ID:                  "kejetia-tomatoes",
		Name:                "Kejetia Tomatoes",
		Price:               30.00,
		OriginalPrice:       45.00,
		Description:         "Per Olonka. Fresh, red and juicy tomatoes sourced directly from Kejetia market. Perfect for Jollof and stews.",
		Category:            CategoryVegetables,
		Image:               "https://images.unsplash.com/photo-1592924357228-91a4daadcfea?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 92,
		Tags:                []string{"fresh", "market", "deal"},
	},
	{
		ID:                  "waakye-leaves",
		Name:                "Waakye Leaves",
		Price:               5.00,
		Description:         "Large Bundle of organic sorghum leaves. Gives your Waakye that authentic deep red color and unique earthy flavor.",
		Category:            CategoryVegetables,
		Image:               "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 99,
		Tags:                []string{"organic", "traditional"},
	},
	{
		ID:                  "smoked-tilapia",
		Name:                "Smoked Tilapia",
		Price:               45.00,
		OriginalPrice:       55.00,
		Description:         "Large fish sourced from the Volta Lake. Traditional smoking methods using local wood for a deep, rich aroma.",
		Category:            CategoryProteins,
		Image:               "https://images.unsplash.com/photo-1534604973900-c41ab4c5d4b0?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 88,
		Tags:                []string{"artisanal", "deal"},
	},
	{
		ID:                  "brown-rice",
		Name:                "Local Brown Rice",
		Price:               80.00,
		Description:         "5kg Bag of stone-free local rice from Ho. High fiber, nutritious, and grown with sustainable water management.",
		Category:            CategoryGrains,
		Image:               "https://images.unsplash.com/photo-1586201375761-83865001e31c?auto=format&fit=crop&q=80&w=800",
		SustainabilityScore: 94,
		Tags:                []string{"whole-grain", "local"},
	},
}

var seedRecipes = []Recipe{
	{
		ID:          "waakye-delight",
		Name:        "Traditional Waakye",
		Description: "The ultimate Ghanaian breakfast dish made with rice and beans.",
		Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?auto=format&fit=crop&q=80&w=800",
		PrepTime:    "60 mins",
		Difficulty:  "Medium",
		Ingredients: []string{"waakye-leaves", "brown-rice", "shito-sauce"},
		Instructions: []string{
			"Wash the beans and soak overnight.",
			"Boil the beans with waakye leaves until half cooked.",
			"Add washed rice and salt to taste.",
			"Simmer until rice and beans are tender.",
			"Serve with shito sauce and garnish.",
		},
	},
	{
		ID:          "light-soup",
		Name:        "Volta Tilapia Light Soup",
		Description: "A spicy, refreshing soup that warms the soul.",
		Image:       "https://images.unsplash.com/photo-1534604973900-c41ab4c5d4b0?auto=format&fit=crop&q=80&w=800",
		PrepTime:    "45 mins",
		Difficulty:  "Easy",
		Ingredients: []string{"smoked-tilapia", "kejetia-tomatoes"},
		Instructions: []string{
			"Blend tomatoes, onions, and ginger.",
			"Boil the blend with a bit of water.",
			"Add the smoked tilapia and allow to simmer.",
			"Season with local spices and salt.",
			"Cook for 20 mins and serve hot.",
		},
	},
}
