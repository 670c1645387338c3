package relationship

// Cypher statements for the graph projection. Nodes and edges carry only a
// projection of the canonical entities; the canonical id is the sole join
// key. Attribute edges are replaced wholesale on every update (delete-all
// then recreate), never diffed.

const (
	cypherMergeUser = `
MERGE (u:User {id: $id})
SET u.full_name = $full_name, u.email = $email`

	cypherDeleteUserAttributeEdges = `
MATCH (u:User {id: $id})-[e:HAS_CONDITION|PREFERS|ALLERGIC_TO]->()
DELETE e`

	cypherDetachDeleteUser = `
MATCH (u:User {id: $id})
DETACH DELETE u`

	cypherMergeUserConditions = `
MATCH (u:User {id: $id})
UNWIND $tags AS tag
MERGE (c:MedicalCondition {name: tag})
MERGE (u)-[:HAS_CONDITION]->(c)`

	cypherMergeUserPreferences = `
MATCH (u:User {id: $id})
UNWIND $tags AS tag
MERGE (p:DietaryPreference {name: tag})
MERGE (u)-[:PREFERS]->(p)`

	cypherMergeUserAllergies = `
MATCH (u:User {id: $id})
UNWIND $tags AS tag
MERGE (a:Allergy {name: tag})
MERGE (u)-[:ALLERGIC_TO]->(a)`

	cypherMergeRecipe = `
MERGE (r:Recipe {id: $id})
SET r.name = $name,
    r.description = $description,
    r.difficulty = $difficulty,
    r.cooking_time = $cooking_time,
    r.rating = $rating,
    r.status = $status`

	cypherMergeRecipeAuthor = `
MATCH (r:Recipe {id: $id})
MERGE (u:User {id: $user_id})
MERGE (r)-[:MERGED_BY]->(u)`

	cypherDeleteRecipeAttributeEdges = `
MATCH (r:Recipe {id: $id})-[e:CONTAINS|PREFERRED_MEAL_TIME|HAS_CONDITION|PREFERS|ALLERGIC_TO]->()
DELETE e`

	cypherMergeRecipeIngredients = `
MATCH (r:Recipe {id: $id})
UNWIND $ingredients AS ing
MERGE (i:Ingredient {id: ing.id})
SET i.name = ing.name, i.type = ing.type
MERGE (r)-[c:CONTAINS]->(i)
SET c.amount = ing.amount`

	cypherMergeRecipeMealTimes = `
MATCH (r:Recipe {id: $id})
UNWIND $tags AS tag
MERGE (m:PreferredMealTime {name: tag})
MERGE (r)-[:PREFERRED_MEAL_TIME]->(m)`

	cypherMergeRecipeConditions = `
MATCH (r:Recipe {id: $id})
UNWIND $tags AS tag
MERGE (c:MedicalCondition {name: tag})
MERGE (r)-[:HAS_CONDITION]->(c)`

	cypherMergeRecipePreferences = `
MATCH (r:Recipe {id: $id})
UNWIND $tags AS tag
MERGE (p:DietaryPreference {name: tag})
MERGE (r)-[:PREFERS]->(p)`

	cypherMergeRecipeAllergies = `
MATCH (r:Recipe {id: $id})
UNWIND $tags AS tag
MERGE (a:Allergy {name: tag})
MERGE (r)-[:ALLERGIC_TO]->(a)`

	cypherDetachDeleteRecipe = `
MATCH (r:Recipe {id: $id})
DETACH DELETE r`

	cypherMergeReview = `
MATCH (u:User {id: $user_id})
MATCH (r:Recipe {id: $recipe_id})
MERGE (u)-[:REVIEWED {rating: $rating, comment: $comment}]->(r)`

	cypherMergeBooked = `
MATCH (u:User {id: $user_id})
MATCH (r:Recipe {id: $recipe_id})
MERGE (u)-[:BOOKED]->(r)`

	cypherDeleteBooked = `
MATCH (u:User {id: $user_id})-[b:BOOKED]->(r:Recipe {id: $recipe_id})
DELETE b`

	cypherBookedByUser = `
MATCH (u:User {id: $user_id})-[:BOOKED]->(r:Recipe)
RETURN r.id AS id
ORDER BY r.id`
)

// cypherRecommend scores candidate recipes for a user.
//
// Similar users must share at least one dietary preference AND one medical
// condition AND one allergy with the requesting user (conjunctive). Candidate
// recipes match the meal-time filter and satisfy any one of: shares a dietary
// preference with the user, carries no allergen the user is allergic to, or
// shares a medical condition (disjunctive).
//
// Scoring: P(like) = totalPos / (totalPos + totalNeg), undefined (and the
// recipe excluded) when the recipe has no reviews at all. The conditional
// terms are Laplace-smoothed, mixing the user's own counts with similar
// users' counts additively: (own + similar + 1) / (global + 2). The final
// score is P(like) * P(userLikes|recipe).
const cypherRecommend = `
MATCH (u:User {id: $user_id})
MATCH (sim:User)
WHERE sim.id <> u.id
  AND (sim)-[:PREFERS]->(:DietaryPreference)<-[:PREFERS]-(u)
  AND (sim)-[:HAS_CONDITION]->(:MedicalCondition)<-[:HAS_CONDITION]-(u)
  AND (sim)-[:ALLERGIC_TO]->(:Allergy)<-[:ALLERGIC_TO]-(u)
WITH u, collect(DISTINCT sim) AS sims
MATCH (r:Recipe)
WHERE ($meal_time = 'all' OR (r)-[:PREFERRED_MEAL_TIME]->(:PreferredMealTime {name: $meal_time}))
  AND (
    (r)-[:PREFERS]->(:DietaryPreference)<-[:PREFERS]-(u)
    OR NOT (r)-[:ALLERGIC_TO]->(:Allergy)<-[:ALLERGIC_TO]-(u)
    OR (r)-[:HAS_CONDITION]->(:MedicalCondition)<-[:HAS_CONDITION]-(u)
  )
OPTIONAL MATCH (u)-[own:REVIEWED]->(r)
WITH u, sims, r,
     count(CASE WHEN own.rating >= 3 THEN 1 END) AS ownPos,
     count(CASE WHEN own.rating < 3 THEN 1 END) AS ownNeg
OPTIONAL MATCH (s:User)-[sr:REVIEWED]->(r)
WHERE s IN sims
WITH u, r, ownPos, ownNeg,
     count(CASE WHEN sr.rating >= 3 THEN 1 END) AS simPos,
     count(CASE WHEN sr.rating < 3 THEN 1 END) AS simNeg
OPTIONAL MATCH (:User)-[ar:REVIEWED]->(r)
WITH r, ownPos, ownNeg, simPos, simNeg,
     count(CASE WHEN ar.rating >= 3 THEN 1 END) AS totalPos,
     count(CASE WHEN ar.rating < 3 THEN 1 END) AS totalNeg
WITH r,
     CASE WHEN totalPos + totalNeg = 0 THEN null
          ELSE toFloat(totalPos) / (totalPos + totalNeg) END AS pLike,
     toFloat(ownPos + simPos + 1) / (totalPos + 2) AS pUserLikes,
     toFloat(ownNeg + simNeg + 1) / (totalNeg + 2) AS pUserDislikes
WITH r, pLike * pUserLikes AS score
WHERE score IS NOT NULL
RETURN r.id AS id, r.name AS name, score
ORDER BY score DESC
SKIP $skip LIMIT $limit`
