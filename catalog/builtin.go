package catalog

// Built-in reference data, used when no data directory is configured or a
// reference file is missing. The lists mirror the consultation form deployed
// in Abidjan: tropical-medicine symptoms and antecedents, and the standard
// malaria work-up analyses.

// DefaultCatalogs returns the built-in symptom, antecedent and analysis
// catalogs.
func DefaultCatalogs() Catalogs {
	return Catalogs{
		Symptoms: []Item{
			{ID: 1, Name: "fièvre", Details: []DetailSpec{
				{ID: 1, Name: "type", Options: []string{"cyclique", "forte", "intermittente"}},
			}},
			{ID: 2, Name: "maux de tête", Details: []DetailSpec{
				{ID: 1, Name: "intensité", Options: []string{"légère", "modérée", "forte"}},
			}},
			{ID: 3, Name: "frissons", Details: []DetailSpec{
				{ID: 1, Name: "intensité", Options: []string{"légers", "modérés", "intenses"}},
			}},
			{ID: 4, Name: "sueurs", Details: []DetailSpec{
				{ID: 1, Name: "moment", Options: []string{"nocturnes", "toute la journée"}},
			}},
			{ID: 5, Name: "fatigue", Details: []DetailSpec{
				{ID: 1, Name: "intensité", Options: []string{"légère", "modérée", "intense"}},
			}},
			{ID: 6, Name: "nausées", Details: []DetailSpec{
				{ID: 1, Name: "fréquence", Options: []string{"occasionnelles", "fréquentes", "persistantes"}},
			}},
			{ID: 7, Name: "vomissements", Details: []DetailSpec{
				{ID: 1, Name: "fréquence", Options: []string{"occasionnels", "fréquents"}},
			}},
			{ID: 8, Name: "douleurs musculaires", Details: []DetailSpec{
				{ID: 1, Name: "localisation", Options: []string{"localisées", "généralisées"}},
			}},
			{ID: 9, Name: "douleurs articulaires", Details: []DetailSpec{
				{ID: 1, Name: "localisation", Options: []string{"localisées", "généralisées"}},
			}},
			{ID: 10, Name: "anémie clinique", Details: []DetailSpec{
				{ID: 1, Name: "signes", Options: []string{"pâleur", "fatigue extrême", "essoufflement"}},
			}},
		},
		Antecedents: []Item{
			{ID: 1, Name: "antécédents de malaria", Details: []DetailSpec{
				{ID: 1, Name: "fréquence", Options: []string{"première fois", "récidive", "multiple"}},
				{ID: 2, Name: "dernier épisode", Options: []string{"< 6 mois", "6-12 mois", "> 12 mois"}},
			}},
			{ID: 2, Name: "zone de résidence", Details: []DetailSpec{
				{ID: 1, Name: "type de zone", Options: []string{"zone urbaine", "zone rurale", "zone forestière"}},
				{ID: 2, Name: "proximité point d'eau", Options: []string{"< 1km", "> 1km"}},
			}},
			{ID: 3, Name: "utilisation de moustiquaire", Details: []DetailSpec{
				{ID: 1, Name: "fréquence", Options: []string{"jamais", "parfois", "toujours"}},
				{ID: 2, Name: "état", Options: []string{"bon état", "troué", "très abîmé"}},
			}},
			{ID: 4, Name: "immunodépression", Details: []DetailSpec{
				{ID: 1, Name: "cause", Options: []string{"VIH", "traitement immunosuppresseur", "autre"}},
			}},
			{ID: 5, Name: "grossesse", Details: []DetailSpec{
				{ID: 1, Name: "trimestre", Options: []string{"premier", "deuxième", "troisième"}},
			}},
		},
		Analyses: []Item{
			{ID: 1, Name: "test de diagnostic rapide du paludisme", ResultKind: ResultBoolean},
			{ID: 2, Name: "frottis sanguin", ResultKind: ResultBoolean},
			{ID: 3, Name: "goutte épaisse", ResultKind: ResultBoolean},
			{ID: 4, Name: "plaquettes", ResultKind: ResultNumeric, Unit: "µL", Threshold: 150000},
			{ID: 5, Name: "hémoglobine", ResultKind: ResultNumeric, Unit: "g/dL", Threshold: 11},
		},
	}
}

// DefaultPatients returns the built-in patient directory.
func DefaultPatients() []Patient {
	return []Patient{
		{ID: "PAT001", CMUNumber: "CMU123456", FirstName: "Jean", LastName: "Dupont", Age: 45, DateOfBirth: "1979-03-15", Gender: "M"},
		{ID: "PAT002", CMUNumber: "CMU789012", FirstName: "Marie", LastName: "Martin", Age: 32, DateOfBirth: "1992-07-22", Gender: "F"},
		{ID: "PAT003", CMUNumber: "CMU345678", FirstName: "Ahmed", LastName: "Kouassi", Age: 28, DateOfBirth: "1996-11-08", Gender: "M"},
		{ID: "PAT004", CMUNumber: "CMU901234", FirstName: "Fatou", LastName: "Traore", Age: 56, DateOfBirth: "1968-05-30", Gender: "F"},
		{ID: "PAT005", CMUNumber: "CMU567890", FirstName: "Pierre", LastName: "Leblanc", Age: 41, DateOfBirth: "1983-09-14", Gender: "M"},
	}
}

// DefaultRecentDiseases returns the fixed recent-disease history attached to
// every diagnostic request.
func DefaultRecentDiseases() []RecentDisease {
	return []RecentDisease{
		{Name: "Malaria", DaysAgo: 30},
		{Name: "Anémie", DaysAgo: 14},
	}
}
