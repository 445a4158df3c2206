package anilist

// Shared selection for a title reference
const mediaFields = `
  id
  type
  title {
    romaji
    english
    native
  }
  coverImage {
    large
    medium
  }
  episodes
  chapters
  format
  status
  averageScore
`

const nextAiringFields = `
  nextAiringEpisode {
    airingAt
    timeUntilAiring
    episode
  }
`

const listQuery = `
query ($userName: String, $type: MediaType) {
  MediaListCollection(userName: $userName, type: $type, sort: UPDATED_TIME_DESC) {
    lists {
      status
      entries {
        id
        status
        progress
        score
        updatedAt
        media {` + mediaFields + nextAiringFields + `}
      }
    }
  }
}
`

const userEntryQuery = `
query ($userName: String, $mediaId: Int) {
  MediaList(userName: $userName, mediaId: $mediaId) {
    id
    status
    progress
    score
    updatedAt
    media {` + mediaFields + `}
  }
}
`

const detailsQuery = `
query ($id: Int) {
  Media(id: $id) {` + mediaFields + nextAiringFields + `
    bannerImage
    description(asHtml: false)
    volumes
    meanScore
    popularity
    genres
    season
    seasonYear
    startDate {
      year
      month
      day
    }
    endDate {
      year
      month
      day
    }
    duration
    source
    studios {
      edges {
        isMain
        node {
          id
          name
          isAnimationStudio
        }
      }
    }
    trailer {
      id
      site
      thumbnail
    }
    rankings {
      id
      rank
      type
      format
      year
      season
      allTime
      context
    }
    relations {
      edges {
        relationType
        node {` + mediaFields + `}
      }
    }
  }
}
`

const airingScheduleQuery = `
query ($page: Int, $airingAt_greater: Int, $airingAt_lesser: Int) {
  Page(page: $page, perPage: 50) {
    pageInfo {
      hasNextPage
      currentPage
    }
    airingSchedules(airingAt_greater: $airingAt_greater, airingAt_lesser: $airingAt_lesser, sort: TIME) {
      id
      airingAt
      episode
      media {` + mediaFields + `}
    }
  }
}
`

const seasonalQuery = `
query ($season: MediaSeason, $seasonYear: Int, $page: Int, $perPage: Int, $sort: [MediaSort]) {
  Page(page: $page, perPage: $perPage) {
    pageInfo {
      hasNextPage
      currentPage
    }
    media(season: $season, seasonYear: $seasonYear, type: ANIME, sort: $sort, isAdult: false) {` + mediaFields + nextAiringFields + `
      studios(isMain: true) {
        edges {
          isMain
          node {
            id
            name
            isAnimationStudio
          }
        }
      }
    }
  }
}
`

const searchQuery = `
query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo {
      hasNextPage
      currentPage
    }
    media(search: $search, sort: SEARCH_MATCH, isAdult: false) {` + mediaFields + `}
  }
}
`

const studioQuery = `
query ($id: Int, $page: Int) {
  Studio(id: $id) {
    id
    name
    isAnimationStudio
    media(sort: [START_DATE_DESC], page: $page, perPage: 50) {
      pageInfo {
        hasNextPage
        currentPage
      }
      edges {
        node {` + mediaFields + `
          startDate {
            year
            month
            day
          }
        }
      }
    }
  }
}
`

const userQuery = `
query ($name: String) {
  User(name: $name) {
    id
    name
    avatar {
      large
      medium
    }
    bannerImage
    statistics {
      anime {
        count
        episodesWatched
        minutesWatched
      }
      manga {
        count
        chaptersRead
      }
    }
  }
}
`

const activityQuery = `
query ($userId: Int, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo {
      hasNextPage
      currentPage
    }
    activities(userId: $userId, type: MEDIA_LIST, sort: ID_DESC) {
      ... on ListActivity {
        id
        status
        progress
        createdAt
        media {` + mediaFields + `}
      }
    }
  }
}
`

const entryResultFields = `
    id
    status
    progress
    score
    updatedAt
`

const updateProgressMutation = `
mutation ($mediaId: Int, $progress: Int) {
  SaveMediaListEntry(mediaId: $mediaId, progress: $progress) {` + entryResultFields + `}
}
`

const updateScoreMutation = `
mutation ($mediaId: Int, $score: Float) {
  SaveMediaListEntry(mediaId: $mediaId, score: $score) {` + entryResultFields + `}
}
`

const updateStatusMutation = `
mutation ($mediaId: Int, $status: MediaListStatus) {
  SaveMediaListEntry(mediaId: $mediaId, status: $status) {` + entryResultFields + `}
}
`

const addEntryMutation = `
mutation ($mediaId: Int, $status: MediaListStatus) {
  SaveMediaListEntry(mediaId: $mediaId, status: $status) {` + entryResultFields + `
    media {` + mediaFields + `}
  }
}
`

const deleteEntryMutation = `
mutation ($id: Int) {
  DeleteMediaListEntry(id: $id) {
    deleted
  }
}
`
