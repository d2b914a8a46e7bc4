package pages

var AlbumBrowser = `
<!DOCTYPE html>
<html>
<head>
    <title>subwave</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 900px;
            margin: 0 auto;
            padding: 20px;
        }
        .controls {
            display: flex;
            gap: 10px;
            margin-bottom: 20px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            text-align: left;
            padding: 6px 10px;
            border-bottom: 1px solid #ddd;
        }
        tr.album-row {
            cursor: pointer;
        }
        #songs {
            margin-top: 20px;
            white-space: pre-wrap;
        }
    </style>
</head>
<body>
    <h1>subwave</h1>
    <div class="controls">
        <select id="list-type">
            <option value="newest">Newest</option>
            <option value="recent">Recently played</option>
            <option value="frequent">Most played</option>
            <option value="random">Random</option>
            <option value="highest">Top rated</option>
            <option value="starred">Starred</option>
            <option value="alphabeticalByName">By name</option>
            <option value="alphabeticalByArtist">By artist</option>
        </select>
        <input id="list-size" type="number" min="1" max="500" value="20">
        <button id="reload">Load</button>
    </div>
    <table>
        <thead>
            <tr><th>Album</th><th>Artist</th><th>Songs</th><th>Length</th></tr>
        </thead>
        <tbody id="albums"></tbody>
    </table>
    <div id="songs"></div>
    <script>
        async function loadAlbums() {
            const type = document.getElementById('list-type').value;
            const size = document.getElementById('list-size').value;
            const resp = await fetch('/api/albums?type=' + type + '&size=' + size);
            if (!resp.ok) { return; }
            const albums = await resp.json();
            const tbody = document.getElementById('albums');
            tbody.innerHTML = '';
            for (const album of albums) {
                const row = document.createElement('tr');
                row.className = 'album-row';
                const mins = Math.round(album.duration / 60);
                row.innerHTML = '<td>' + album.name + '</td><td>' + album.artist +
                    '</td><td>' + album.songCount + '</td><td>' + mins + ' min</td>';
                row.addEventListener('click', () => loadSongs(album.id, album.name));
                tbody.appendChild(row);
            }
        }
        async function loadSongs(id, name) {
            const resp = await fetch('/api/albums/' + id + '/songs');
            if (!resp.ok) { return; }
            const songs = await resp.json();
            const lines = songs.map(s => s.track + '. ' + s.title);
            document.getElementById('songs').textContent = name + '\n' + lines.join('\n');
        }
        document.getElementById('reload').addEventListener('click', loadAlbums);
        document.getElementById('list-type').addEventListener('change', loadAlbums);
        loadAlbums();
    </script>
</body>
</html>`
