package services

// ─── Fallback (when a provider is not configured or fails) ───────────────────

// fallbackCatalog holds a few well-known titles per catalog genre so the UI can
// still render rows without a TMDB key. Responses built from it are labelled
// SourceEstimated.
var fallbackCatalog = map[int][]Movie{
	28: {
		{ID: 155, Title: "The Dark Knight", Rating: 8.5, Year: 2008, Synopsis: "Batman faces the Joker, a criminal mastermind who plunges Gotham into anarchy."},
		{ID: 76341, Title: "Mad Max: Fury Road", Rating: 7.6, Year: 2015, Synopsis: "A drifter and a rebel warrior flee a tyrant across a post-apocalyptic desert."},
		{ID: 562, Title: "Die Hard", Rating: 7.8, Year: 1988, Synopsis: "An off-duty cop takes on a gang that has seized a Los Angeles skyscraper."},
	},
	12: {
		{ID: 85, Title: "Raiders of the Lost Ark", Rating: 7.9, Year: 1981, Synopsis: "An archaeologist races Nazi agents to recover the Ark of the Covenant."},
		{ID: 329, Title: "Jurassic Park", Rating: 7.9, Year: 1993, Synopsis: "A theme park of cloned dinosaurs breaks down during a preview tour."},
		{ID: 120, Title: "The Lord of the Rings: The Fellowship of the Ring", Rating: 8.4, Year: 2001, Synopsis: "A hobbit sets out to destroy a ring of terrible power."},
	},
	35: {
		{ID: 120467, Title: "The Grand Budapest Hotel", Rating: 8.0, Year: 2014, Synopsis: "A legendary concierge and his lobby boy are caught up in a stolen-painting caper."},
		{ID: 8363, Title: "Superbad", Rating: 7.2, Year: 2007, Synopsis: "Two co-dependent high schoolers try to make the most of one last party."},
		{ID: 346648, Title: "Paddington 2", Rating: 7.6, Year: 2017, Synopsis: "Paddington is framed for stealing a rare pop-up book."},
	},
	18: {
		{ID: 278, Title: "The Shawshank Redemption", Rating: 8.7, Year: 1994, Synopsis: "Two imprisoned men bond over years, finding solace and redemption."},
		{ID: 13, Title: "Forrest Gump", Rating: 8.5, Year: 1994, Synopsis: "A kind-hearted man witnesses decades of American history."},
		{ID: 244786, Title: "Whiplash", Rating: 8.4, Year: 2014, Synopsis: "A young drummer is pushed to the brink by a ruthless instructor."},
	},
	27: {
		{ID: 694, Title: "The Shining", Rating: 8.2, Year: 1980, Synopsis: "A writer's sanity unravels while caretaking an isolated hotel."},
		{ID: 419430, Title: "Get Out", Rating: 7.6, Year: 2017, Synopsis: "A weekend visit to his girlfriend's family turns sinister."},
		{ID: 493922, Title: "Hereditary", Rating: 7.3, Year: 2018, Synopsis: "A grieving family uncovers terrifying secrets about their ancestry."},
	},
	53: {
		{ID: 807, Title: "Se7en", Rating: 8.4, Year: 1995, Synopsis: "Two detectives hunt a killer who stages the seven deadly sins."},
		{ID: 274, Title: "The Silence of the Lambs", Rating: 8.3, Year: 1991, Synopsis: "An FBI trainee seeks a cannibal's help to catch a serial killer."},
		{ID: 210577, Title: "Gone Girl", Rating: 7.9, Year: 2014, Synopsis: "A husband becomes the prime suspect when his wife disappears."},
	},
	10751: {
		{ID: 862, Title: "Toy Story", Rating: 8.0, Year: 1995, Synopsis: "A cowboy doll feels threatened by a new spaceman action figure."},
		{ID: 12, Title: "Finding Nemo", Rating: 7.8, Year: 2003, Synopsis: "A timid clownfish crosses the ocean to find his son."},
		{ID: 354912, Title: "Coco", Rating: 8.2, Year: 2017, Synopsis: "A boy who dreams of music journeys into the Land of the Dead."},
	},
	99: {
		{ID: 515042, Title: "Free Solo", Rating: 7.9, Year: 2018, Synopsis: "Alex Honnold attempts to climb El Capitan without ropes."},
		{ID: 13222, Title: "Man on Wire", Rating: 7.7, Year: 2008, Synopsis: "Philippe Petit's 1974 high-wire walk between the Twin Towers."},
		{ID: 84892, Title: "Jiro Dreams of Sushi", Rating: 7.7, Year: 2011, Synopsis: "An 85-year-old sushi master and his lifelong pursuit of perfection."},
	},
	9648: {
		{ID: 546554, Title: "Knives Out", Rating: 7.8, Year: 2019, Synopsis: "A detective investigates the death of a wealthy crime novelist."},
		{ID: 11324, Title: "Shutter Island", Rating: 8.2, Year: 2010, Synopsis: "A U.S. Marshal investigates a disappearance at an island asylum."},
		{ID: 77, Title: "Memento", Rating: 8.2, Year: 2000, Synopsis: "A man with short-term memory loss hunts his wife's killer."},
	},
	10749: {
		{ID: 313369, Title: "La La Land", Rating: 7.9, Year: 2016, Synopsis: "A jazz pianist and an actress fall in love while chasing their dreams."},
		{ID: 4348, Title: "Pride & Prejudice", Rating: 8.1, Year: 2005, Synopsis: "Elizabeth Bennet spars with the proud Mr. Darcy."},
		{ID: 194, Title: "Amélie", Rating: 7.9, Year: 2001, Synopsis: "A shy Parisian waitress quietly changes the lives of those around her."},
	},
	10752: {
		{ID: 857, Title: "Saving Private Ryan", Rating: 8.2, Year: 1998, Synopsis: "A squad crosses Normandy to bring home a paratrooper."},
		{ID: 424, Title: "Schindler's List", Rating: 8.6, Year: 1993, Synopsis: "A businessman saves more than a thousand Jewish refugees."},
		{ID: 530915, Title: "1917", Rating: 8.0, Year: 2019, Synopsis: "Two soldiers race across enemy territory to deliver a warning."},
	},
	80: {
		{ID: 238, Title: "The Godfather", Rating: 8.7, Year: 1972, Synopsis: "The aging patriarch of a crime dynasty hands control to his son."},
		{ID: 680, Title: "Pulp Fiction", Rating: 8.5, Year: 1994, Synopsis: "Interlocking stories of Los Angeles criminals."},
		{ID: 496243, Title: "Parasite", Rating: 8.5, Year: 2019, Synopsis: "A poor family schemes its way into a wealthy household."},
	},
}

// fallbackMixed is used for genres without a dedicated list.
var fallbackMixed = []int{18, 28, 35, 12}

// FallbackMovies returns static movies for the first genre id that has a
// list, or a mixed selection when none do.
func FallbackMovies(genreIDs []int) []Movie {
	for _, id := range genreIDs {
		if movies, ok := fallbackCatalog[id]; ok {
			return withFallbackDefaults(movies, id)
		}
	}

	var mixed []Movie
	for _, id := range fallbackMixed {
		mixed = append(mixed, withFallbackDefaults(fallbackCatalog[id][:1], id)...)
	}
	return mixed
}

func withFallbackDefaults(src []Movie, genreID int) []Movie {
	out := make([]Movie, len(src))
	for i, m := range src {
		m.Genre = GenreName(genreID)
		m.PosterURL = placeholderPoster
		out[i] = m
	}
	return out
}

// FallbackWeather is served when the weather provider is unavailable: the
// default location, an "Unknown" condition and 20 degrees.
func FallbackWeather(location string) Weather {
	return Weather{
		Temperature: 20,
		Condition:   DefaultWeather,
		Location:    location,
		Icon:        "",
		Source:      SourceEstimated,
	}
}
