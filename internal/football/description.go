package football

// Description is the human-readable summary of the football dataset.
const Description = `Football point spreads and game outcomes

Source: Gelman et al., Bayesian Data Analysis (Chapter 1, point spreads).
Professional American football games from the 1981, 1983-1986 and 1988-1992
seasons. 1982 and 1987 are not included. Each season contributes 224 games.

Columns:
  home           1 if the favorite played at home, 0 otherwise
  favorite       points scored by the favorite
  underdog       points scored by the underdog
  spread         point spread in favor of the favorite
  favorite.name  team code of the favorite
  underdog.name  team code of the underdog
  week           week of the season (resets to 1 at each new season)
  year           season, reconstructed from week resets (derived)
`
