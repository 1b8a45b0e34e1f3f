package source

import "fmt"

// All pagination queries share the same shape: a strictly-increasing primary
// id cursor, ascending order, and a LIMIT. Table names are built from the
// configured prefix; everything else is bound as a parameter.

func (c *Client) usersQuery() string {
	return fmt.Sprintf(`
		SELECT u.ID, u.user_nicename, u.display_name, u.user_email,
		       u.user_registered, u.user_url, u.user_pass
		  FROM %[1]susers u
		  LEFT JOIN %[1]sposts p ON p.post_author = u.ID
		 WHERE u.user_email LIKE '%%@%%'
		   AND p.post_type IN (?, ?)
		   AND p.post_status = 'publish'
		   AND u.ID > ?
		 GROUP BY u.ID
		 ORDER BY u.ID
		 LIMIT ?`, c.prefix)
}

func (c *Client) countUsersQuery() string {
	return fmt.Sprintf(`
		SELECT COUNT(DISTINCT u.ID)
		  FROM %[1]susers u
		  LEFT JOIN %[1]sposts p ON p.post_author = u.ID
		 WHERE p.post_type IN (?, ?)
		   AND p.post_status = 'publish'
		   AND u.user_email LIKE '%%@%%'`, c.prefix)
}

func (c *Client) categoriesQuery() string {
	return fmt.Sprintf(`
		SELECT tt.term_id, t.name, t.slug, tt.description
		  FROM %[1]sterm_taxonomy tt
		  LEFT JOIN %[1]sterms t ON t.term_id = tt.term_id
		 WHERE tt.taxonomy = ?
		   AND tt.term_id > ?
		 ORDER BY tt.term_id
		 LIMIT ?`, c.prefix)
}

func (c *Client) countCategoriesQuery() string {
	return fmt.Sprintf(`
		SELECT COUNT(*)
		  FROM %[1]sterm_taxonomy tt
		 WHERE tt.taxonomy = ?`, c.prefix)
}

func (c *Client) postsQuery() string {
	return fmt.Sprintf(`
		SELECT p.ID, p.post_author, p.post_date, p.post_content,
		       p.post_title, p.post_type, p.post_parent,
		       an.meta_value, ae.meta_value
		  FROM %[1]sposts p
		  LEFT JOIN %[1]spostmeta an
		         ON an.post_id = p.ID AND an.meta_key = '_dwqa_anonymous_name'
		  LEFT JOIN %[1]spostmeta ae
		         ON ae.post_id = p.ID AND ae.meta_key = '_dwqa_anonymous_email'
		 WHERE p.post_status = 'publish'
		   AND p.post_type IN (?, ?)
		   AND p.ID > ?
		 ORDER BY p.ID
		 LIMIT ?`, c.prefix)
}

func (c *Client) countPostsQuery() string {
	return fmt.Sprintf(`
		SELECT COUNT(*)
		  FROM %[1]sposts p
		 WHERE p.post_status = 'publish'
		   AND p.post_type IN (?, ?)`, c.prefix)
}

func (c *Client) commentsQuery() string {
	return fmt.Sprintf(`
		SELECT c.comment_ID + %[2]d, c.comment_post_ID, c.comment_author,
		       c.comment_author_email, c.comment_content, c.comment_date,
		       c.user_id
		  FROM %[1]scomments c
		  LEFT JOIN %[1]sposts p ON c.comment_post_ID = p.ID
		 WHERE p.post_type = ?
		   AND p.post_status = 'publish'
		   AND c.comment_approved = 1
		   AND c.comment_ID + %[2]d > ?
		 ORDER BY c.comment_ID
		 LIMIT ?`, c.prefix, CommentIDOffset)
}

func (c *Client) countCommentsQuery() string {
	return fmt.Sprintf(`
		SELECT COUNT(*)
		  FROM %[1]scomments c
		  LEFT JOIN %[1]sposts p ON c.comment_post_ID = p.ID
		 WHERE p.post_type = ?
		   AND p.post_status = 'publish'
		   AND c.comment_approved = 1`, c.prefix)
}

func (c *Client) associationsQuery() string {
	return fmt.Sprintf(`
		SELECT p.ID, tt.term_id
		  FROM %[1]sposts p
		  LEFT JOIN %[1]sterm_relationships tr ON p.ID = tr.object_id
		  LEFT JOIN %[1]sterm_taxonomy tt ON tr.term_taxonomy_id = tt.term_taxonomy_id
		 WHERE p.post_status = 'publish'
		   AND p.post_type = ?
		   AND tt.taxonomy = ?
		   AND p.ID > ?
		 ORDER BY p.ID
		 LIMIT ?`, c.prefix)
}

func (c *Client) countAssociationsQuery() string {
	return fmt.Sprintf(`
		SELECT COUNT(*)
		  FROM %[1]sposts p
		  LEFT JOIN %[1]sterm_relationships tr ON p.ID = tr.object_id
		  LEFT JOIN %[1]sterm_taxonomy tt ON tr.term_taxonomy_id = tt.term_taxonomy_id
		 WHERE p.post_status = 'publish'
		   AND p.post_type = ?
		   AND tt.taxonomy = ?`, c.prefix)
}
